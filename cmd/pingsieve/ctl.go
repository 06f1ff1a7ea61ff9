package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/modoterra/pingsieve/pkg/sieve"
	"github.com/modoterra/pingsieve/pkg/transport/uds"
	tuimodel "github.com/modoterra/pingsieve/pkg/tui/model"
)

const defaultSocket = "/tmp/pingsieve.sock"

var ctlSocket string

func init() {
	statusCmd.Flags().StringVar(&ctlSocket, "socket", defaultSocket, "control socket of the running pingsieve")
	topCmd.Flags().StringVar(&ctlSocket, "socket", defaultSocket, "control socket of the running pingsieve")
}

func dialSieve() (*uds.Client, error) {
	client, err := uds.Dial(ctlSocket)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to pingsieve at %s (is it running with --socket?): %w", ctlSocket, err)
	}
	return client, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a status snapshot of a running pingsieve",
	RunE: func(_ *cobra.Command, _ []string) error {
		client, err := dialSieve()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, err := client.Request(ctx, uds.MethodStatus, nil)
		if err != nil {
			return err
		}

		var snap sieve.Snapshot
		if err := resp.UnmarshalData(&snap); err != nil {
			return err
		}
		fmt.Println(snap)
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live view of a running pingsieve",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := tuimodel.New(ctlSocket)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}
