package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ImageSweepInput is the input for the image sweep workflow.
type ImageSweepInput struct {
	// DryRun lists orphans without deleting them.
	DryRun bool
}

// ImageSweepWorkflow reconciles the image bucket against marker rows
// and deletes objects no marker references. Orphans appear when an
// upload succeeds but the marker insert fails, or when a delete removes
// the row before the object.
func ImageSweepWorkflow(ctx workflow.Context, input ImageSweepInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting image sweep", "dryRun", input.DryRun)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var stored []string
	if err := workflow.ExecuteActivity(ctx, "ListStoredKeys").Get(ctx, &stored); err != nil {
		return err
	}

	var referenced []string
	if err := workflow.ExecuteActivity(ctx, "ListReferencedKeys").Get(ctx, &referenced); err != nil {
		return err
	}

	refSet := make(map[string]struct{}, len(referenced))
	for _, k := range referenced {
		refSet[k] = struct{}{}
	}

	deleted := 0
	for _, key := range stored {
		if _, ok := refSet[key]; ok {
			continue
		}
		if input.DryRun {
			logger.Info("Orphaned object (dry run)", "key", key)
			continue
		}
		// Best effort per object: one stuck delete must not stall the sweep.
		if err := workflow.ExecuteActivity(ctx, "DeleteObject", key).Get(ctx, nil); err != nil {
			logger.Warn("Orphan delete failed", "key", key, "error", err)
			continue
		}
		deleted++
	}

	logger.Info("Image sweep complete", "stored", len(stored), "referenced", len(referenced), "deleted", deleted)
	return nil
}
