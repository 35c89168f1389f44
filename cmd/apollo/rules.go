package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zielww/apollo/internal/api"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
)

var (
	addDevice     string
	addMode       string
	addBrightness int
	addStart      string
	addEnd        string

	listDevice string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a lighting rule",
	Example: `  apollo add --device esp32-a1b2 --mode warm --brightness 80 --start 19:00 --end 23:30
  apollo add --device 192.168.1.40 --mode natural --brightness 60 --start sunrise --end sunrise+2h`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <rule-id>",
	Short: "Remove a lighting rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List lighting rules",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	addCmd.Flags().StringVar(&addDevice, "device", "", "device id or address")
	addCmd.Flags().StringVar(&addMode, "mode", "", "light mode: warm, natural or both")
	addCmd.Flags().IntVar(&addBrightness, "brightness", 100, "brightness 0-100")
	addCmd.Flags().StringVar(&addStart, "start", "", `start time, "HH:MM", "sunrise" or "sunset", optionally offset e.g. "sunset-30m"`)
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time, same forms as --start")
	_ = addCmd.MarkFlagRequired("device")
	_ = addCmd.MarkFlagRequired("mode")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")

	listCmd.Flags().StringVar(&listDevice, "device", "", "only list rules of this device")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	rule, err := planner.AddRule(cmd.Context(), api.RuleRequest{
		DeviceID:   addDevice,
		LightMode:  addMode,
		Brightness: &addBrightness,
		Start:      addStart,
		End:        addEnd,
	})
	var conflict *rulestore.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("%s (rule %s)", conflict.Error(), conflict.Conflicting.ID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s %s %d%% %s\n", rule.ID, rule.DeviceID, rule.LightMode, rule.Brightness, rule.Interval)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := planner.RemoveRule(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, rulestore.ErrNotFound) {
			return fmt.Errorf("no rule with id %s", args[0])
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	rules, err := planner.Rules(cmd.Context(), listDevice)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no rules")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEVICE\tMODE\tBRIGHTNESS\tWINDOW")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\n", r.ID, r.DeviceID, r.LightMode, r.Brightness, r.Interval)
	}
	return w.Flush()
}
