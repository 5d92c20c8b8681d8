package cli

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/compozy/solo/pkg/config"
	"github.com/compozy/solo/pkg/logger"
	"github.com/compozy/solo/pkg/singleton"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const divider = "----------------------------------------------"

// demoFs is the filesystem snapshots are written to. Tests swap in an
// in-memory implementation.
var demoFs afero.Fs = afero.NewOsFs()

// DemoCmd returns the demo command tree.
func DemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the singleton registry demonstrations",
	}

	cmd.AddCommand(
		demoBasicCmd(),
		demoBreakCmd(),
		demoProtectCmd(),
		demoStressCmd(),
	)

	return cmd
}

// demoBasicCmd resolves the instance twice through the accessor.
func demoBasicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "basic",
		Short: "Resolve the instance twice and compare identities",
		RunE:  handleDemoBasic,
	}
}

func handleDemoBasic(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reg := singleton.FromContext(ctx)
	log := logger.FromContext(ctx)
	log.Debug("running basic demo", "policy", reg.Policy())

	s1, err := reg.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s1 ID: %s\n", s1.ID)

	s2, err := reg.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s2 ID: %s\n", s2.ID)

	fmt.Fprintf(out, "same instance: %t\n", s1.Equal(s2))
	fmt.Fprintf(out, "accessor constructions: %d\n", reg.Constructions())
	return nil
}

// demoBreakCmd runs the three escape routes against a permissive registry.
func demoBreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "break",
		Short: "Escape the accessor with forced construction, a snapshot round trip, and a clone",
		RunE:  handleDemoBreak,
	}
}

func handleDemoBreak(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx)

	// The escape routes only mint new identities under the permissive policy,
	// so this demo runs on its own registry regardless of the configured one.
	reg := singleton.NewRegistry(singleton.WithPolicy(singleton.PolicyPermissive))
	log.Debug("running break demo", "policy", reg.Policy())

	s1, err := reg.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s1 ID: %s\n", s1.ID)

	s2, err := reg.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s2 ID: %s\n", s2.ID)

	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, "Break through forced construction")
	s3, err := forceNewByReflection(reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s3 ID: %s\n", s3.ID)

	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, "Breaking using the snapshot round trip")
	if err := singleton.WriteSnapshot(demoFs, cfg.Store.Path, s1); err != nil {
		return err
	}
	s4, err := reg.ReadSnapshot(demoFs, cfg.Store.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s4 ID: %s\n", s4.ID)

	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, "Breaking using cloning")
	s5, err := reg.Clone(s1)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s5 ID: %s\n", s5.ID)

	fmt.Fprintln(out, divider)
	fmt.Fprintf(out, "accessor constructions: %d\n", reg.Constructions())
	return nil
}

// demoProtectCmd runs the same escape routes against a strict registry.
func demoProtectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "protect",
		Short: "Show the strict policy rejecting every escape route",
		RunE:  handleDemoProtect,
	}
}

func handleDemoProtect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx)

	reg := singleton.NewRegistry(singleton.WithPolicy(singleton.PolicyStrict))
	log.Debug("running protect demo", "policy", reg.Policy())

	s1, err := reg.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s1 ID: %s\n", s1.ID)

	s2, err := reg.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s2 ID: %s\n", s2.ID)

	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, "Preventing forced construction")
	if _, err := forceNewByReflection(reg); err != nil {
		fmt.Fprintf(out, "construction error: %v\n", err)
	}

	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, "Preventing snapshot duplication")
	if err := singleton.WriteSnapshot(demoFs, cfg.Store.Path, s1); err != nil {
		return err
	}
	s4, err := reg.ReadSnapshot(demoFs, cfg.Store.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "s4 ID: %s\n", s4.ID)
	fmt.Fprintf(out, "same instance: %t\n", s4.Equal(s1))

	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, "Preventing cloning")
	if _, err := reg.Clone(s1); err != nil {
		fmt.Fprintf(out, "cloning error: %v\n", err)
	}

	fmt.Fprintln(out, divider)
	fmt.Fprintf(out, "accessor constructions: %d\n", reg.Constructions())
	return nil
}

// demoStressCmd hammers the accessor from many goroutines.
func demoStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Resolve the instance concurrently and count constructions",
		RunE:  handleDemoStress,
	}
}

func handleDemoStress(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := config.FromContext(ctx)
	reg := singleton.FromContext(ctx)
	log := logger.FromContext(ctx)

	runID := uuid.NewString()
	workers := cfg.Stress.Workers
	log.Info("starting stress run", "run_id", runID, "workers", workers, "policy", reg.Policy())

	runCtx := ctx
	if cfg.Stress.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Stress.Timeout)
		defer cancel()
	}

	var mu sync.Mutex
	seen := make(map[singleton.ID]int)

	g, runCtx := errgroup.WithContext(runCtx)
	for range workers {
		g.Go(func() error {
			if err := runCtx.Err(); err != nil {
				return err
			}
			inst, err := reg.Get()
			if err != nil {
				return err
			}
			mu.Lock()
			seen[inst.ID]++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("stress run failed: %w", err)
	}

	log.Info("stress run finished", "run_id", runID, "distinct", len(seen))

	fmt.Fprintf(out, "workers: %d\n", workers)
	fmt.Fprintf(out, "distinct identities: %d\n", len(seen))
	fmt.Fprintf(out, "accessor constructions: %d\n", reg.Constructions())
	return nil
}

// forceNewByReflection invokes the registry constructor through the
// reflection API rather than a direct method call.
func forceNewByReflection(reg *singleton.Registry) (*singleton.Instance, error) {
	method := reflect.ValueOf(reg).MethodByName("ForceNew")
	if !method.IsValid() {
		return nil, fmt.Errorf("registry does not expose ForceNew")
	}
	results := method.Call(nil)
	if errVal := results[1].Interface(); errVal != nil {
		return nil, errVal.(error)
	}
	inst, ok := results[0].Interface().(*singleton.Instance)
	if !ok {
		return nil, fmt.Errorf("unexpected ForceNew result type %T", results[0].Interface())
	}
	return inst, nil
}
