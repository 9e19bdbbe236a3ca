package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

type recordingRunner struct {
	invocations []Invocation
	stdout      string
}

func (r *recordingRunner) Run(_ context.Context, inv Invocation) (*Result, error) {
	r.invocations = append(r.invocations, inv)
	return &Result{Stdout: []byte(r.stdout)}, nil
}

func TestAzureCLI_Args(t *testing.T) {
	tests := []struct {
		name         string
		subscription string
		call         func(ctx context.Context, az *AzureCLI) error
		want         []string
		wantMode     Mode
		wantStdin    string
	}{
		{
			name: "json",
			call: func(ctx context.Context, az *AzureCLI) error {
				var v []any
				return az.JSON(ctx, &v, "group", "list")
			},
			want:     []string{"group", "list", "-o", "json"},
			wantMode: ModeJSON,
		},
		{
			name:         "json with subscription",
			subscription: "sub-1",
			call: func(ctx context.Context, az *AzureCLI) error {
				var v []any
				return az.JSON(ctx, &v, "network", "vnet", "list")
			},
			want:     []string{"network", "vnet", "list", "--subscription", "sub-1", "-o", "json"},
			wantMode: ModeJSON,
		},
		{
			name:         "explicit subscription is not duplicated",
			subscription: "sub-1",
			call: func(ctx context.Context, az *AzureCLI) error {
				var v []any
				return az.JSON(ctx, &v, "vm", "list", "--subscription", "sub-2")
			},
			want:     []string{"vm", "list", "--subscription", "sub-2", "-o", "json"},
			wantMode: ModeJSON,
		},
		{
			name: "lines",
			call: func(ctx context.Context, az *AzureCLI) error {
				_, err := az.Lines(ctx, "group", "list", "--query", "[].name")
				return err
			},
			want:     []string{"group", "list", "--query", "[].name", "-o", "tsv"},
			wantMode: ModeText,
		},
		{
			name: "apply",
			call: func(ctx context.Context, az *AzureCLI) error {
				_, err := az.Apply(ctx, []byte("doc"), "containerapp", "job", "create", "--yaml", "-")
				return err
			},
			want:      []string{"containerapp", "job", "create", "--yaml", "-", "-o", "json"},
			wantMode:  ModeText,
			wantStdin: "doc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingRunner{stdout: "[]"}
			az := NewAzureCLI(rec)
			if tt.subscription != "" {
				az = az.ForSubscription(tt.subscription)
			}

			require.NoError(t, tt.call(context.Background(), az))
			require.Len(t, rec.invocations, 1)
			assert.Equal(t, tt.want, rec.invocations[0].Args)
			assert.Equal(t, tt.wantMode, rec.invocations[0].Mode)
			assert.Equal(t, tt.wantStdin, string(rec.invocations[0].Stdin))
		})
	}
}

func TestAzureCLI_ForSubscriptionDoesNotMutate(t *testing.T) {
	az := NewAzureCLI(&recordingRunner{})
	sub := az.ForSubscription("sub-1")

	assert.Empty(t, az.Subscription())
	assert.Equal(t, "sub-1", sub.Subscription())
}

func TestAzureCLI_RawValidates(t *testing.T) {
	az := NewAzureCLI(&recordingRunner{stdout: "oops"})

	_, err := az.Raw(context.Background(), "group", "export", "--name", "rg")
	require.Error(t, err)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeMalformedOutput))
}
