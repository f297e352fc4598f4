// Package importer seeds demo users and loads service usage from a CSV file.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	apitokendomain "github.com/smallbiznis/workbill/internal/apitoken/domain"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	billingdomain "github.com/smallbiznis/workbill/internal/billing/domain"
	"github.com/smallbiznis/workbill/internal/config"
	workspacedomain "github.com/smallbiznis/workbill/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	demo1Username = "demo1"
	demo2Username = "demo2"
	demo1Password = "skills2023d1"
	demo2Password = "skills2023d2"
)

var requiredColumns = []string{
	"username",
	"workspace_title",
	"api_token_name",
	"service_name",
	"service_cost_per_ms",
	"usage_started_at",
	"usage_duration_in_ms",
}

type row struct {
	Username          string
	WorkspaceTitle    string
	APITokenName      string
	ServiceName       string
	ServiceCostPerMs  float64
	UsageStartedAt    time.Time
	UsageDurationInMs int64
}

type Importer struct {
	log        *zap.Logger
	cfg        config.Config
	genID      *snowflake.Node
	authsvc    authdomain.Service
	users      authdomain.Repository
	workspaces workspacedomain.Repository
	tokens     apitokendomain.Repository
	billing    billingdomain.Repository
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	GenID      *snowflake.Node
	Authsvc    authdomain.Service
	Users      authdomain.Repository
	Workspaces workspacedomain.Repository
	Tokens     apitokendomain.Repository
	Billing    billingdomain.Repository
}

func New(p Params) *Importer {
	return &Importer{
		log:        p.Log.Named("importer"),
		cfg:        p.Cfg,
		genID:      p.GenID,
		authsvc:    p.Authsvc,
		users:      p.Users,
		workspaces: p.Workspaces,
		tokens:     p.Tokens,
		billing:    p.Billing,
	}
}

// Run seeds the demo users and imports every row of the usage CSV. Rows are
// processed strictly in file order; creation of shared workspace/token/service
// rows is deduplicated through database find-or-create backed by unique
// constraints, so a re-run adds no new entities but always appends bills.
func (i *Importer) Run(ctx context.Context) error {
	demo1, err := i.ensureUser(ctx, demo1Username, demo1Password)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", demo1Username, err)
	}
	demo2, err := i.ensureUser(ctx, demo2Username, demo2Password)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", demo2Username, err)
	}

	file, err := os.Open(i.cfg.ImportCSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	return i.importRows(ctx, file, demo1, demo2)
}

func (i *Importer) importRows(ctx context.Context, r io.Reader, demo1, demo2 *authdomain.User) error {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	columns, err := columnIndex(header)
	if err != nil {
		return err
	}

	// Per-run caches keyed the same way the find-or-create queries are, so
	// repeated keys within one file cost a single lookup.
	workspaceCache := map[string]*workspacedomain.Workspace{}
	tokenCache := map[string]*apitokendomain.APIToken{}
	serviceCache := map[string]*billingdomain.Service{}

	line := 1
	imported := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			i.log.Warn("skipping malformed csv line", zap.Int("line", line), zap.Error(err))
			continue
		}

		parsed, err := parseRow(record, columns)
		if err != nil {
			i.log.Warn("skipping invalid csv line", zap.Int("line", line), zap.Error(err))
			continue
		}

		user := demo2
		if parsed.Username == demo1Username {
			user = demo1
		}

		if err := i.importRow(ctx, user, parsed, workspaceCache, tokenCache, serviceCache); err != nil {
			i.log.Warn("skipping csv line", zap.Int("line", line), zap.Error(err))
			continue
		}
		imported++
	}

	i.log.Info("import finished", zap.Int("bills", imported))
	return nil
}

func (i *Importer) importRow(
	ctx context.Context,
	user *authdomain.User,
	parsed row,
	workspaceCache map[string]*workspacedomain.Workspace,
	tokenCache map[string]*apitokendomain.APIToken,
	serviceCache map[string]*billingdomain.Service,
) error {
	workspace, ok := workspaceCache[parsed.WorkspaceTitle]
	if !ok {
		workspace = &workspacedomain.Workspace{
			ID:      i.genID.Generate(),
			Title:   parsed.WorkspaceTitle,
			OwnerID: user.ID,
		}
		if err := i.workspaces.FindOrCreate(ctx, workspace); err != nil {
			return fmt.Errorf("workspace %q: %w", parsed.WorkspaceTitle, err)
		}
		workspaceCache[parsed.WorkspaceTitle] = workspace
	}

	tokenKey := parsed.WorkspaceTitle + "\x00" + parsed.APITokenName
	token, ok := tokenCache[tokenKey]
	if !ok {
		token = &apitokendomain.APIToken{
			ID:          i.genID.Generate(),
			Name:        parsed.APITokenName,
			WorkspaceID: workspace.ID,
		}
		if err := i.tokens.FindOrCreate(ctx, token); err != nil {
			return fmt.Errorf("api token %q: %w", parsed.APITokenName, err)
		}
		tokenCache[tokenKey] = token
	}

	serviceKey := tokenKey + "\x00" + parsed.ServiceName
	service, ok := serviceCache[serviceKey]
	if !ok {
		service = &billingdomain.Service{
			ID:         i.genID.Generate(),
			Name:       parsed.ServiceName,
			CostPerMs:  parsed.ServiceCostPerMs,
			APITokenID: token.ID,
		}
		if err := i.billing.FindOrCreateService(ctx, service); err != nil {
			return fmt.Errorf("service %q: %w", parsed.ServiceName, err)
		}
		serviceCache[serviceKey] = service
	}

	bill := &billingdomain.Bill{
		ID:                i.genID.Generate(),
		UsageStartedAt:    parsed.UsageStartedAt,
		UsageDurationInMs: parsed.UsageDurationInMs,
		ServiceID:         service.ID,
	}
	if err := i.billing.CreateBill(ctx, bill); err != nil {
		return fmt.Errorf("bill: %w", err)
	}
	return nil
}

func (i *Importer) ensureUser(ctx context.Context, username, password string) (*authdomain.User, error) {
	user, err := i.authsvc.Register(ctx, authdomain.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err == nil {
		return user, nil
	}
	if errors.Is(err, authdomain.ErrUserExists) {
		return i.users.FindByUsername(ctx, username)
	}
	return nil, err
}

func columnIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for pos, name := range header {
		columns[name] = pos
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", name)
		}
	}
	return columns, nil
}

func parseRow(record []string, columns map[string]int) (row, error) {
	field := func(name string) string {
		pos := columns[name]
		if pos >= len(record) {
			return ""
		}
		return record[pos]
	}

	costPerMs, err := strconv.ParseFloat(field("service_cost_per_ms"), 64)
	if err != nil {
		return row{}, fmt.Errorf("service_cost_per_ms: %w", err)
	}
	durationMs, err := strconv.ParseInt(field("usage_duration_in_ms"), 10, 64)
	if err != nil {
		return row{}, fmt.Errorf("usage_duration_in_ms: %w", err)
	}
	startedAt, err := time.Parse(time.RFC3339, field("usage_started_at"))
	if err != nil {
		return row{}, fmt.Errorf("usage_started_at: %w", err)
	}

	return row{
		Username:          field("username"),
		WorkspaceTitle:    field("workspace_title"),
		APITokenName:      field("api_token_name"),
		ServiceName:       field("service_name"),
		ServiceCostPerMs:  costPerMs,
		UsageStartedAt:    startedAt,
		UsageDurationInMs: durationMs,
	}, nil
}
