package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ivlev/annotator/internal/editor"
)

func newReplayCommand(ctx *cliContext) *cobra.Command {
	var out string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "replay <input> <script.yaml>",
		Short: "Drive the editor from a recorded event script and save the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := editor.ReadScript(args[1])
			if err != nil {
				return fmt.Errorf("ошибка чтения сценария: %w", err)
			}

			s, err := ctx.openSession(args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			shapes, err := s.adapter.Load(cmd.Context(), s.mediaID)
			if err != nil {
				return err
			}
			s.editor.SetShapes(shapes)
			fmt.Printf("[*] Сценарий: %s | шагов: %d | фигур в хранилище: %d\n", args[1], len(script.Steps), len(shapes))

			if err := s.editor.Replay(script); err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("[*] Фигур после сценария: %d (без сохранения)\n", len(s.editor.Shapes()))
			} else {
				assigned, err := s.adapter.Save(cmd.Context(), s.mediaID, s.editor.Shapes())
				if err != nil {
					// Список фигур и история остаются прежними: можно повторить.
					log.Printf("[!] Сохранение не удалось: %v", err)
					return err
				}
				s.editor.ConfirmIDs(assigned)
				fmt.Printf("[+] Сохранено новых фигур: %d\n", len(assigned))
			}

			if out != "" {
				surface := s.editor.Tick(s.media.CurrentTime())
				if err := writePNG(out, surface); err != nil {
					return err
				}
				fmt.Printf("[+] Итоговый кадр: %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the final composited frame to this PNG")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Replay without saving to the store")
	return cmd
}
