/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/reconcilers/builder"
	"chainguard.dev/codestandard/reconcilers/driftreconciler"
	"chainguard.dev/codestandard/reconcilers/repolinker"
	"chainguard.dev/codestandard/reconcilers/snapshot"
	"chainguard.dev/codestandard/report"
	"chainguard.dev/codestandard/standard"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

func (a *app) client(ctx context.Context) (*codacy.Client, error) {
	cfg, err := loadConfig(ctx, a.lookuper)
	if err != nil {
		return nil, err
	}
	return cfg.client()
}

// pick lists the active standards of org and applies the selection to them.
func (a *app) pick(ctx context.Context, client *codacy.Client, org string, sel *selection) (*standard.Standard, error) {
	all, err := client.ListStandards(ctx, org)
	if err != nil {
		return nil, err
	}
	active := standard.ActiveOnly(all)
	if len(active) == 0 {
		return nil, fmt.Errorf("no active coding standards found for organization %s", org)
	}
	chosen, err := standard.SelectStandard(active, sel.selector(a))
	if err != nil {
		return nil, err
	}
	a.info("Selected coding standard: %s (ID: %d)", chosen.Name, chosen.ID)
	return chosen, nil
}

func (a *app) createCmd() *cobra.Command {
	var org, name, cfgPath, output string
	var draft bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a coding standard from a baseline file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			baseline, err := standard.Load(cfgPath)
			if err != nil {
				return err
			}
			client, err := a.client(ctx)
			if err != nil {
				return err
			}

			var opts []builder.Option
			if draft {
				opts = append(opts, builder.WithoutPromotion())
			}
			res, err := builder.New(client, opts...).Build(ctx, org, name, baseline)
			if err != nil {
				return err
			}
			if err := report.Build(a.out, res); err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				a.warning("the coding standard was created with failures: %v", err)
			}

			if output == "" {
				output = standard.FileName(name, "result")
			}
			if err := standard.Save(output, res.Standard); err != nil {
				return err
			}
			a.success("Coding standard %d written to %s", res.Standard.ID, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "organization", "", "Codacy organization name")
	cmd.Flags().StringVar(&name, "name", "", "name of the new coding standard")
	cmd.Flags().StringVar(&cfgPath, "config", "", "baseline file (JSON or YAML)")
	cmd.Flags().StringVar(&output, "output", "", "where to write the created standard (default <name>_result.json)")
	cmd.Flags().BoolVar(&draft, "draft", false, "leave the standard as a draft instead of promoting it")
	for _, f := range []string{"organization", "name", "config"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var org, output string
	var sel selection
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Save the enabled tools and patterns of a coding standard to a baseline file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			chosen, err := a.pick(ctx, client, org, &sel)
			if err != nil {
				return err
			}
			st, err := snapshot.New(client).Extract(ctx, org, chosen.ID)
			if err != nil {
				return err
			}

			if output == "" {
				output = standard.FileName(st.Name, "standard")
			}
			if err := standard.Save(output, st); err != nil {
				return err
			}
			a.info("%s", report.Standard(st))
			a.success("Coding standard saved to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "organization", "", "Codacy organization name")
	cmd.Flags().StringVar(&output, "output", "", "where to write the baseline (default <name>_standard.json; .yaml writes YAML)")
	sel.register(cmd)
	_ = cmd.MarkFlagRequired("organization")
	return cmd
}

func (a *app) reconcileCmd() *cobra.Command {
	var org, cfgPath string
	var dryRun, tree bool
	var sel selection
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Correct drift between a coding standard and its baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			baseline, err := standard.Load(cfgPath)
			if err != nil {
				return err
			}
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			chosen, err := a.pick(ctx, client, org, &sel)
			if err != nil {
				return err
			}
			live, err := snapshot.New(client).Fetch(ctx, org, chosen.ID)
			if err != nil {
				return err
			}

			var opts []driftreconciler.Option
			if dryRun {
				opts = append(opts, driftreconciler.WithDryRun())
			}
			deviations, err := driftreconciler.New(client, opts...).Reconcile(ctx, org, live, baseline)
			if err != nil {
				// Corrections are best effort; the deviations are still reported.
				clog.FromContext(ctx).With("error", err.Error()).Warn("Some corrections failed")
				a.warning("some corrections failed: %v", err)
			}

			if len(deviations) == 0 {
				a.success("No deviations found. The coding standard matches the original configuration.")
				return nil
			}
			if dryRun {
				a.heading("Deviations found (dry run, nothing was corrected):")
			} else {
				a.heading("Deviations found and corrected:")
			}
			if tree {
				a.info("%s", report.Deviations(deviations))
				return nil
			}
			for _, d := range deviations {
				a.info("- %s", d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "organization", "", "Codacy organization name")
	cmd.Flags().StringVar(&cfgPath, "config", "", "baseline file (JSON or YAML)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report deviations without correcting them")
	cmd.Flags().BoolVar(&tree, "tree", false, "print deviations as a tree grouped by tool")
	sel.register(cmd)
	_ = cmd.MarkFlagRequired("organization")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	var org, name string
	var id int64
	var batchSize int
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a coding standard to every repository of an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			if id == 0 {
				all, err := client.ListStandards(ctx, org)
				if err != nil {
					return err
				}
				chosen, err := standard.SelectStandard(all, standard.ByName(name))
				if err != nil {
					return err
				}
				id = chosen.ID
			}

			opts := []repolinker.Option{repolinker.WithBatchSize(batchSize)}
			if a.sleep != nil {
				opts = append(opts, repolinker.WithSleep(a.sleep))
			}
			summary := repolinker.New(client, opts...).ApplyToAll(ctx, org, id)
			if err := report.Apply(a.out, summary); err != nil {
				return err
			}
			if err := summary.Err(); err != nil {
				a.fail(err)
				return errReported
			}
			a.success("Coding standard %d applied to %d repositories", id, len(summary.Successful))
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "organization", "", "Codacy organization name")
	cmd.Flags().Int64Var(&id, "standard-id", 0, "id of the coding standard to apply")
	cmd.Flags().StringVar(&name, "standard", "", "name of the coding standard to apply")
	cmd.Flags().IntVar(&batchSize, "batch-size", repolinker.DefaultBatchSize, "repositories linked per request")
	_ = cmd.MarkFlagRequired("organization")
	cmd.MarkFlagsOneRequired("standard-id", "standard")
	cmd.MarkFlagsMutuallyExclusive("standard-id", "standard")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of baseline files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := standard.SchemaJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, string(b))
			return err
		},
	}
}
