package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var SinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Manage custom sink integrations",
}

var sinkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored integrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		all, err := p.registry.List()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No integrations configured.")
			return nil
		}
		for _, item := range all {
			state := "inactive"
			if item.IsActive {
				state = "active"
			}
			tested := "never"
			if item.LastTestedAt != nil {
				tested = item.LastTestedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%s  %-20s %-8s last tested: %s  %s\n", item.ID, item.Name, state, tested, item.Endpoint)
		}
		return nil
	},
}

var sinkAddCmd = &cobra.Command{
	Use:   "add <name> <endpoint> <api-key>",
	Short: "Add a custom sink integration",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		integration, err := p.registry.Add(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Added integration %s (%s)\n", integration.Name, integration.ID)
		return nil
	},
}

var sinkTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Probe an integration endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		integration, err := p.registry.Test(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if integration.IsActive {
			fmt.Printf("Integration %s is reachable.\n", integration.Name)
		} else {
			fmt.Printf("Integration %s is unreachable and was deactivated (record retained).\n", integration.Name)
		}
		return nil
	},
}

var sinkDelCmd = &cobra.Command{
	Use:     "del <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an integration",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		if err := p.registry.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("Integration deleted.")
		return nil
	},
}

func init() {
	SinkCmd.AddCommand(sinkListCmd)
	SinkCmd.AddCommand(sinkAddCmd)
	SinkCmd.AddCommand(sinkTestCmd)
	SinkCmd.AddCommand(sinkDelCmd)
}
