package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"aggregate-persistence/feature/order"

	"github.com/spf13/cobra"
)

// orderCmd is the parent command for order inspection.
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect stored orders",
}

// orderShowCmd prints one order aggregate.
var orderShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an order with its items as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		rt, err := bootstrap(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()

		gw, err := order.NewGateway(rt.db, rt.cfg.Persistence, rt.sink, rt.log)
		if err != nil {
			return err
		}
		agg, err := gw.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, agg.Root())
	},
}

// orderHistoryCmd prints the journal of one order.
var orderHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Print the journal records of an order (object journal only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.object == nil {
			return errors.New("order history needs JOURNAL_SINK=object")
		}
		records, err := rt.object.History(cmd.Context(), order.AggregateName, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, records)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	orderCmd.AddCommand(orderShowCmd, orderHistoryCmd)
	RootCmd.AddCommand(orderCmd)
}
