package commands

import (
	"context"

	"github.com/walteh/proxypatch/cmd/proxypatch/opts"
	"github.com/walteh/proxypatch/pkg/apipath"
	"github.com/walteh/proxypatch/pkg/log"
)

// Apply patches every configured target and reports success on stdout
func Apply(ctx context.Context, o *opts.RootOpts) error {
	ops, _, err := patchOperations(ctx, o, false)
	if err != nil {
		return err
	}

	if err := runOperations(ctx, o, ops); err != nil {
		return err
	}

	log.FromContext(ctx).Success(apipath.SuccessMessage)
	return nil
}
