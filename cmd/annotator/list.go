package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ivlev/annotator/internal/persist"
)

func newListCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [media-id]",
		Short: "List media in the store, or the overlays of one media",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg.StorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				recs, err := store.LoadOverlays(cmd.Context(), args[0])
				if errors.Is(err, persist.ErrNotFound) {
					fmt.Printf("[*] %s: нет сохраненных фигур\n", args[0])
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Println(overlayTable(recs))
				return nil
			}

			ids, err := store.MediaIDs(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				recs, err := store.LoadOverlays(cmd.Context(), id)
				if err != nil && !errors.Is(err, persist.ErrNotFound) {
					return err
				}
				rows = append(rows, []string{id, strconv.Itoa(len(recs))})
			}
			fmt.Println(renderTable([]string{"Media", "Overlays"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func overlayTable(recs []persist.Record) string {
	headers := []string{"#", "ID", "Type", "Window", "X", "Y", "W", "H", "Color", "Extra"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		kind := r.Type
		if r.Config.Shape != "" {
			kind += "/" + r.Config.Shape
		}
		var extra string
		switch r.Type {
		case persist.TypeText:
			extra = fmt.Sprintf("%q @ %gpx", r.Config.Text, r.Config.FontSize)
		case persist.TypeMosaic:
			extra = fmt.Sprintf("block %d", r.Config.PixelSize)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.ID,
			kind,
			fmt.Sprintf("%.2f-%.2f", r.StartSec, r.EndSec),
			fmt.Sprintf("%g", r.Config.X),
			fmt.Sprintf("%g", r.Config.Y),
			fmt.Sprintf("%g", r.Config.Width),
			fmt.Sprintf("%g", r.Config.Height),
			r.Config.Color,
			extra,
		})
	}
	return renderTable(headers, rows, aligns)
}
