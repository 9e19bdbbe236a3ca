package rgdoc

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/azops/pkg/artifact"
	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/command/commandtest"
	"github.com/NVIDIA/azops/pkg/llm"
)

const appTemplate = `{
  "$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#",
  "resources": [
    {"type": "Microsoft.Web/sites", "name": "app", "tags": {"owner": "web-team", "env": "prod"}},
    {"type": "Microsoft.Storage/storageAccounts", "name": "st", "tags": {"costCenter": "42"}}
  ]
}`

type countingLLM struct {
	calls atomic.Int32
	reply string
	err   error
}

func (c *countingLLM) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.reply}, nil
}

func newDocumenter(t *testing.T, fake *commandtest.FakeRunner, client llm.Client) *Documenter {
	t.Helper()
	return &Documenter{
		AZ:    command.NewAzureCLI(fake),
		LLM:   client,
		Store: artifact.New("mem://localhost/" + strings.ReplaceAll(t.Name(), "/", "_")),
		Now:   func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
	}
}

func TestDocument_Generates(t *testing.T) {
	ctx := context.Background()
	fake := commandtest.New().OnJSON("group export --name rg-app --include-parameter-default-value", appTemplate)
	client := &countingLLM{reply: "This group hosts the web app."}
	d := newDocumenter(t, fake, client)

	out, err := d.Document(ctx, "rg-app")
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, out.Status)

	tmpl, err := d.Store.Read(ctx, "rg-app", TemplateFile)
	require.NoError(t, err)
	assert.JSONEq(t, appTemplate, string(tmpl))

	md, err := d.Store.Read(ctx, "rg-app", SummaryFile)
	require.NoError(t, err)
	doc := string(md)

	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.Regexp(t, `title: ['"]Resource Group: rg-app['"]`, doc)
	assert.Contains(t, doc, "internal: true")
	assert.Contains(t, doc, "2026-03-14")
	assert.Contains(t, doc, "# Resource Group: rg-app\n\n**Summary**:\n\nThis group hosts the web app.\n")

	// tags are merged from all resources and sorted
	iCost := strings.Index(doc, "costCenter:")
	iEnv := strings.Index(doc, "env: prod")
	iOwner := strings.Index(doc, "owner: web-team")
	require.True(t, iCost > 0 && iEnv > 0 && iOwner > 0, doc)
	assert.Less(t, iCost, iEnv)
	assert.Less(t, iEnv, iOwner)
}

func TestDocument_SecondRunLeavesSummaryUntouched(t *testing.T) {
	ctx := context.Background()
	fake := commandtest.New().OnJSON("group export --name rg-app --include-parameter-default-value", appTemplate)
	client := &countingLLM{reply: "summary"}
	d := newDocumenter(t, fake, client)

	_, err := d.Document(ctx, "rg-app")
	require.NoError(t, err)

	edited := []byte("hand edited summary")
	require.NoError(t, d.Store.Write(ctx, edited, "rg-app", SummaryFile))

	out, err := d.Document(ctx, "rg-app")
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, out.Status)

	md, err := d.Store.Read(ctx, "rg-app", SummaryFile)
	require.NoError(t, err)
	assert.Equal(t, edited, md)

	assert.Equal(t, 1, fake.Called("group export"))
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestDocument_ReusesExportedTemplate(t *testing.T) {
	ctx := context.Background()
	fake := commandtest.New()
	client := &countingLLM{reply: "summary"}
	d := newDocumenter(t, fake, client)

	require.NoError(t, d.Store.Write(ctx, []byte(appTemplate), "rg-app", TemplateFile))

	_, err := d.Document(ctx, "rg-app")
	require.NoError(t, err)
	assert.Zero(t, fake.Called("group export"))
	assert.Equal(t, int32(1), client.calls.Load())
}

// exportRace stores a competing template while the export is running.
type exportRace struct {
	command.Runner
	store    *artifact.Store
	rg       string
	template string
}

func (r *exportRace) Run(ctx context.Context, inv command.Invocation) (*command.Result, error) {
	res, err := r.Runner.Run(ctx, inv)
	if werr := r.store.Write(ctx, []byte(r.template), r.rg, TemplateFile); werr != nil {
		return nil, werr
	}
	return res, err
}

func TestDocument_ConcurrentExportKeepsStoredTemplate(t *testing.T) {
	ctx := context.Background()
	const stored = `{"resources": [{"name": "kept", "tags": {"owner": "other-run"}}]}`
	fake := commandtest.New().OnJSON("group export --name rg-app --include-parameter-default-value", appTemplate)

	var prompt string
	client := llm.ClientFunc(func(_ context.Context, req *llm.Request) (*llm.Response, error) {
		for _, m := range req.Messages {
			prompt += m.Content
		}
		return &llm.Response{Content: "summary"}, nil
	})
	d := newDocumenter(t, fake, client)
	d.AZ = command.NewAzureCLI(&exportRace{Runner: fake, store: d.Store, rg: "rg-app", template: stored})

	_, err := d.Document(ctx, "rg-app")
	require.NoError(t, err)

	tmpl, err := d.Store.Read(ctx, "rg-app", TemplateFile)
	require.NoError(t, err)
	assert.JSONEq(t, stored, string(tmpl))
	assert.Contains(t, prompt, "kept")
	assert.NotContains(t, prompt, "Microsoft.Web/sites")

	md, err := d.Store.Read(ctx, "rg-app", SummaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(md), "owner: other-run")
	assert.NotContains(t, string(md), "web-team")
}

func TestDocument_ForceRegenerates(t *testing.T) {
	ctx := context.Background()
	fake := commandtest.New().OnJSON("group export --name rg-app --include-parameter-default-value", appTemplate)
	client := &countingLLM{reply: "fresh"}
	d := newDocumenter(t, fake, client)

	require.NoError(t, d.Store.Write(ctx, []byte("stale"), "rg-app", SummaryFile))
	d.Force = true

	out, err := d.Document(ctx, "rg-app")
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, out.Status)

	md, err := d.Store.Read(ctx, "rg-app", SummaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(md), "fresh")
	assert.Equal(t, 1, fake.Called("group export"))
}

func TestRun_ExhaustedRetriesIsItemFailure(t *testing.T) {
	fake := commandtest.New().
		OnJSON("group export --name rg-app --include-parameter-default-value", appTemplate).
		OnJSON("group export --name rg-data --include-parameter-default-value", `{"resources": []}`)

	inner := llm.ClientFunc(func(_ context.Context, req *llm.Request) (*llm.Response, error) {
		if strings.Contains(req.Messages[1].Content, "rg-app") {
			return nil, errors.New("503 service unavailable")
		}
		return &llm.Response{Content: "data summary"}, nil
	})
	client := llm.NewResilientClient(inner,
		llm.WithMaxAttempts(3),
		llm.WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)
	d := newDocumenter(t, fake, client)

	report := d.Run(context.Background(), []string{"rg-app", "rg-data"})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "rg-data", report.Rows[0].ResourceGroup)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "rg-app", report.Failures[0].Label)

	ok, err := d.Store.Exists(context.Background(), "rg-app", SummaryFile)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDocument_ExportFailure(t *testing.T) {
	fake := commandtest.New().OnFail("group export --name rg-app --include-parameter-default-value", "ResourceGroupNotFound")
	client := &countingLLM{reply: "unused"}
	d := newDocumenter(t, fake, client)

	_, err := d.Document(context.Background(), "rg-app")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResourceGroupNotFound")
	assert.Zero(t, client.calls.Load())
}

func TestResourceGroups(t *testing.T) {
	fake := commandtest.New().On("group list --query [].name -o tsv", commandtest.Response{Stdout: "rg-app\nrg-data\n"})
	d := newDocumenter(t, fake, &countingLLM{})

	groups, err := d.ResourceGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"rg-app", "rg-data"}, groups)
}
