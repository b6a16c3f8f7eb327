package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kanban-board/backend/internal/board"
	"github.com/spf13/cobra"
)

var (
	boardSearch string
	boardSort   string
	boardDesc   bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the board, one section per lane",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireLogin(); err != nil {
			return err
		}
		field, err := board.ParseSortField(boardSort)
		if err != nil {
			return err
		}

		b := board.New(current.api)
		if err := b.Load(cmd.Context()); err != nil {
			return describeError(err)
		}

		printLanes(cmd.OutOrStdout(), b.Lanes(board.View{
			Query:      boardSearch,
			SortBy:     field,
			Descending: boardDesc,
		}))
		return nil
	},
}

func init() {
	boardCmd.Flags().StringVarP(&boardSearch, "search", "s", "", "only show tickets whose name or description contains this text")
	boardCmd.Flags().StringVar(&boardSort, "sort", "name", "sort tickets by name or created")
	boardCmd.Flags().BoolVar(&boardDesc, "desc", false, "sort in descending order")
	rootCmd.AddCommand(boardCmd)
}

func printLanes(w io.Writer, lanes []board.Lane) {
	for i, lane := range lanes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n%s\n", lane.Status, len(lane.Tickets), strings.Repeat("-", len(lane.Status)+4))
		if len(lane.Tickets) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}
		for _, t := range lane.Tickets {
			fmt.Fprintf(w, "  #%-4d %s\n", t.ID, t.Name)
		}
	}
}
