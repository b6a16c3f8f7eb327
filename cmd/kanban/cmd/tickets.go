package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/kanban-board/backend/internal/board"
	"github.com/kanban-board/backend/internal/model"
	"github.com/spf13/cobra"
)

var (
	ticketName        string
	ticketDescription string
	ticketStatus      string
)

var ticketsCmd = &cobra.Command{
	Use:     "tickets",
	Aliases: []string{"ticket", "t"},
	Short:   "Manage tickets",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return current.requireLogin()
	},
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tickets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tickets, err := current.api.ListTickets(cmd.Context())
		if err != nil {
			return describeError(err)
		}
		printTickets(cmd.OutOrStdout(), tickets)
		return nil
	},
}

var ticketsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := current.api.GetTicket(cmd.Context(), id)
		if err != nil {
			return describeError(err)
		}
		printTicket(cmd.OutOrStdout(), t)
		return nil
	},
}

var ticketsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a ticket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := current.api.CreateTicket(cmd.Context(), model.TicketRequest{
			Name:        ticketName,
			Status:      ticketStatus,
			Description: ticketDescription,
		})
		if err != nil {
			return describeError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created ticket #%d\n", t.ID)
		return nil
	},
}

var ticketsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a ticket's name, description or status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		existing, err := current.api.GetTicket(cmd.Context(), id)
		if err != nil {
			return describeError(err)
		}

		req := model.TicketRequest{Name: existing.Name, Status: existing.Status, Description: existing.Description}
		flags := cmd.Flags()
		if flags.Changed("name") {
			req.Name = ticketName
		}
		if flags.Changed("description") {
			req.Description = ticketDescription
		}
		if flags.Changed("status") {
			req.Status = ticketStatus
		}

		t, err := current.api.UpdateTicket(cmd.Context(), id, req)
		if err != nil {
			return describeError(err)
		}
		printTicket(cmd.OutOrStdout(), t)
		return nil
	},
}

var ticketsMoveCmd = &cobra.Command{
	Use:   "move ID STATUS",
	Short: "Move a ticket to another lane (Todo, \"In Progress\", Done)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		b := board.New(current.api)
		if err := b.Load(cmd.Context()); err != nil {
			return describeError(err)
		}
		if err := b.Move(cmd.Context(), id, args[1]); err != nil {
			return describeError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved ticket #%d to %s\n", id, args[1])
		return nil
	},
}

var ticketsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.api.DeleteTicket(cmd.Context(), id); err != nil {
			return describeError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted ticket #%d\n", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{ticketsCreateCmd, ticketsUpdateCmd} {
		c.Flags().StringVarP(&ticketName, "name", "n", "", "ticket name")
		c.Flags().StringVarP(&ticketDescription, "description", "d", "", "ticket description")
		c.Flags().StringVar(&ticketStatus, "status", "", "Todo, \"In Progress\" or Done")
	}
	_ = ticketsCreateCmd.MarkFlagRequired("name")

	ticketsCmd.AddCommand(ticketsListCmd, ticketsShowCmd, ticketsCreateCmd, ticketsUpdateCmd, ticketsMoveCmd, ticketsDeleteCmd)
	rootCmd.AddCommand(ticketsCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ticket id %q", s)
	}
	return id, nil
}

func printTickets(w io.Writer, tickets []model.Ticket) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tNAME\tCREATED BY")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Status, t.Name, createdBy(t))
	}
	_ = tw.Flush()
}

func printTicket(w io.Writer, t *model.Ticket) {
	fmt.Fprintf(w, "#%d %s\n", t.ID, t.Name)
	fmt.Fprintf(w, "Status:      %s\n", t.Status)
	fmt.Fprintf(w, "Created by:  %s\n", createdBy(*t))
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created at:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

func createdBy(t model.Ticket) string {
	if t.CreatedBy != nil {
		return t.CreatedBy.Username
	}
	return "-"
}
