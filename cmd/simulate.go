package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/hidgeneric/internal/config"
	"github.com/bnema/hidgeneric/internal/driver"
	"github.com/bnema/hidgeneric/internal/generic"
	"github.com/bnema/hidgeneric/internal/hid"
	"github.com/bnema/hidgeneric/internal/sink"
	"github.com/bnema/hidgeneric/internal/ui"
)

var (
	simulateValues []int32
	simulateHWheel bool
	simulateUinput bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <dump.json>",
	Short: "Replay wheel events through the event translator",
	Long: `Probe a captured descriptor dump against an in-memory transport,
then feed synthetic wheel rotation values through the event translator
and print the translated output. With --uinput the events are injected
into the local system through a virtual mouse instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int32SliceVar(&simulateValues, "value", []int32{1}, "wheel rotation values to replay")
	simulateCmd.Flags().BoolVar(&simulateHWheel, "hwheel", false, "replay on the horizontal wheel")
	simulateCmd.Flags().BoolVar(&simulateUinput, "uinput", false, "inject through uinput instead of printing")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	dev, err := hid.LoadDevice(args[0])
	if err != nil {
		return err
	}
	config.ApplyQuirks(dev)

	registry := driver.NewRegistry()
	gen := generic.New(registry, generic.WithForce(true))
	if err := registry.Register(gen); err != nil {
		return err
	}

	dev.SetTransport(&hid.MemoryTransport{})
	ctx, err := gen.Probe(dev)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer gen.Remove(ctx)

	var s sink.EventSink
	rec := &sink.Recorder{}
	if simulateUinput {
		u, err := sink.NewUinput(config.Get().Driver.UinputName)
		if err != nil {
			return err
		}
		defer func() { _ = u.Close() }()
		s = u
	} else {
		s = rec
	}
	gen.InputConfigured(ctx, s)

	usageID := hid.UsageWheel
	if simulateHWheel {
		usageID = hid.UsageACPan
	}
	field, usage, ok := dev.FindUsage(hid.InputReport, usageID)
	if !ok {
		return fmt.Errorf("device %s has no input field for usage %#x", dev.Name, usageID)
	}

	for _, value := range simulateValues {
		if !gen.Event(ctx, field, usage, value) {
			fmt.Println(ui.Fail(fmt.Sprintf("value %d not consumed", value)))
		}
	}

	if simulateUinput {
		fmt.Println(ui.Ok(fmt.Sprintf("injected %d event(s)", len(simulateValues))))
		return nil
	}

	fmt.Println(ui.Header("Translated events"))
	for _, ev := range rec.Events() {
		if ev.Sync {
			fmt.Println(ui.SubtleStyle.Render("  SYN_REPORT"))
			continue
		}
		fmt.Printf("  %s %d\n", ev.Code, ev.Value)
	}

	return nil
}
