package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
	"github.com/zielww/apollo/internal/schedule"
	"github.com/zielww/apollo/internal/tui"
)

var (
	timelineDevice string
	timelineWidth  int

	activeAt string

	syncTime bool

	setWarm    int
	setNatural int
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Draw the rules on a 24 hour timeline",
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the output each device should have now (or --at HH:MM)",
	Args:  cobra.NoArgs,
	RunE:  runActive,
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices registered in the directory",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

var syncCmd = &cobra.Command{
	Use:   "sync <device>",
	Short: "Push a device its rules again",
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

var setCmd = &cobra.Command{
	Use:   "set <device>",
	Short: "Set a device channel directly, it holds until the device next applies its schedules",
	Example: `  apollo set esp32-a1b2 --warm 60
  apollo set esp32-a1b2 --warm 0 --natural 100`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

var statusCmd = &cobra.Command{
	Use:   "status <device>",
	Short: "Show a device's clock and whether it holds its rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	timelineCmd.Flags().StringVar(&timelineDevice, "device", "", "only draw rules of this device")
	timelineCmd.Flags().IntVar(&timelineWidth, "width", 0, "cells per hour (default from config)")

	activeCmd.Flags().StringVar(&activeAt, "at", "", "time of day HH:MM")

	syncCmd.Flags().BoolVar(&syncTime, "time", false, "also resync the device clock over ntp")

	setCmd.Flags().IntVar(&setWarm, "warm", 0, "warm channel level 0-100, 0 is off")
	setCmd.Flags().IntVar(&setNatural, "natural", 0, "natural channel level 0-100, 0 is off")
	setCmd.MarkFlagsOneRequired("warm", "natural")
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	width := timelineWidth
	if width <= 0 {
		width = apolloConfig.Timeline.HourWidth
	}

	rules, err := planner.Rules(cmd.Context(), timelineDevice)
	if err != nil {
		return err
	}

	renderer := tui.NewTimelineRenderer(width)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(
		schedule.Timeline(rules),
		models.TimeOfDayFromTime(time.Now()),
	))
	return nil
}

func runActive(cmd *cobra.Command, _ []string) error {
	at := models.TimeOfDayFromTime(time.Now())
	if activeAt != "" {
		parsed, err := models.ParseTimeOfDay(activeAt)
		if err != nil {
			return err
		}
		at = parsed
	}

	active, err := planner.Active(cmd.Context(), at)
	if err != nil {
		return err
	}
	if len(active) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no rules")
		return nil
	}

	deviceIDs := lo.Keys(active)
	sort.Strings(deviceIDs)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "DEVICE\tWARM\tNATURAL\t(at %s)\n", at)
	for _, id := range deviceIDs {
		out := active[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", id, channel(out.WarmOn, out.WarmBrightness), channel(out.NaturalOn, out.NaturalBrightness))
	}
	return w.Flush()
}

func channel(on bool, brightness int) string {
	if !on {
		return "off"
	}
	return fmt.Sprintf("%d%%", brightness)
}

func runDevices(cmd *cobra.Command, _ []string) error {
	devices, err := planner.Devices(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tRULES\tLAST ONLINE")
	for _, d := range devices {
		lastOnline := "-"
		if d.LastOnline != nil {
			lastOnline = d.LastOnline.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Address, d.RuleCount, lastOnline)
	}
	return w.Flush()
}

func runSync(cmd *cobra.Command, args []string) error {
	deviceID := args[0]
	if syncTime {
		synced, err := planner.SyncTime(cmd.Context(), deviceID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "clock of %s synced: %s\n", deviceID, synced.Format(constants.DeviceTimeLayout))
	}

	if err := planner.Sync(cmd.Context(), deviceID); err != nil {
		return err
	}
	rules, err := planner.Rules(cmd.Context(), deviceID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "synced %s (%d rules)\n", deviceID, len(rules))
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	levels := []struct {
		flag    string
		channel models.Channel
		level   int
	}{
		{flag: "warm", channel: models.ChannelWarm, level: setWarm},
		{flag: "natural", channel: models.ChannelNatural, level: setNatural},
	}

	for _, l := range levels {
		if !cmd.Flags().Changed(l.flag) {
			continue
		}
		if err := planner.SetChannel(cmd.Context(), args[0], l.channel, l.level); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", args[0], l.channel, channel(l.level > 0, l.level))
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := planner.DeviceStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "DEVICE\t%s\n", status.DeviceID)
	fmt.Fprintf(w, "ADDRESS\t%s\n", status.Address)
	fmt.Fprintf(w, "CLOCK\t%s\n", lo.Ternary(status.TimeSynced, status.Clock, "not synchronized"))
	fmt.Fprintf(w, "SCHEDULES\t%d held, %d expected\n", len(status.Schedules), status.ExpectedRules)
	fmt.Fprintf(w, "IN SYNC\t%t\n", status.InSync)
	if err := w.Flush(); err != nil {
		return err
	}

	for _, warning := range status.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
	return nil
}
