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

var inspectCmd = &cobra.Command{
	Use:   "inspect <dump.json>",
	Short: "Probe a captured descriptor dump and report discovered multipliers",
	Long: `Load a parsed capability-report dump, run the fallback matcher and
multiplier discovery against it, and show what the driver would program
into the device.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	dev, err := hid.LoadDevice(args[0])
	if err != nil {
		return err
	}
	config.ApplyQuirks(dev)

	fmt.Println(ui.Header(dev.Name))
	fmt.Println(ui.KeyValue("vendor", fmt.Sprintf("%04x", dev.Vendor)))
	fmt.Println(ui.KeyValue("product", fmt.Sprintf("%04x", dev.Product)))
	fmt.Println(ui.KeyValue("input reports", len(dev.Reports(hid.InputReport))))
	fmt.Println(ui.KeyValue("feature reports", len(dev.Reports(hid.FeatureReport))))
	fmt.Println()

	registry := driver.NewRegistry()
	gen := generic.New(registry, generic.WithForce(config.Get().Driver.ForceGeneric))
	if err := registry.Register(gen); err != nil {
		return err
	}

	if !gen.Match(dev) {
		fmt.Println(ui.Fail("device rejected by fallback matcher"))
		return nil
	}
	fmt.Println(ui.Ok("device accepted by fallback matcher"))

	transport := &hid.MemoryTransport{}
	dev.SetTransport(transport)

	ctx, err := gen.Probe(dev)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer gen.Remove(ctx)

	rec := &sink.Recorder{}
	gen.InputConfigured(ctx, rec)

	fmt.Println()
	fmt.Println(ui.KeyValue("wheel multiplier", ctx.WheelMultiplier()))
	fmt.Println(ui.KeyValue("hwheel multiplier", ctx.HWheelMultiplier()))
	fmt.Println(ui.KeyValue("hi-res wheel advertised", rec.Declared(sink.RelWheelHiRes)))
	fmt.Println(ui.KeyValue("hi-res hwheel advertised", rec.Declared(sink.RelHWheelHiRes)))

	requests := transport.Requests()
	if len(requests) == 0 {
		fmt.Println(ui.SubtleStyle.Render("no configuration writes issued"))
		return nil
	}
	fmt.Println()
	fmt.Println(ui.Header("Configuration writes"))
	for _, req := range requests {
		fmt.Println(ui.KeyValue(fmt.Sprintf("report %d", req.ReportID), req.Values))
	}

	return nil
}
