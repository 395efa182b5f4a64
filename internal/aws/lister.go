// Package aws lists ECS resources by driving the aws CLI.
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// DefaultRegions is the curated region list offered when live listing is off
var DefaultRegions = []string{"us-west-2", "us-east-1", "eu-central-1", "ap-southeast-2"}

// Runner runs one aws CLI invocation and returns its stdout
type Runner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// CLILister implements the hierarchy listing on top of the aws CLI
type CLILister struct {
	runner      Runner
	regions     []string
	liveRegions bool
}

// ListerOption configures a CLILister
type ListerOption func(*CLILister)

// WithRegions sets the static region list
func WithRegions(regions []string) ListerOption {
	return func(l *CLILister) {
		if len(regions) > 0 {
			l.regions = regions
		}
	}
}

// WithLiveRegions makes ListRegions query ec2 describe-regions
func WithLiveRegions(live bool) ListerOption {
	return func(l *CLILister) {
		l.liveRegions = live
	}
}

// NewCLILister creates a lister backed by runner
func NewCLILister(runner Runner, opts ...ListerOption) *CLILister {
	l := &CLILister{
		runner:  runner,
		regions: DefaultRegions,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListProfiles returns the configured CLI profiles, sorted
func (l *CLILister) ListProfiles(ctx context.Context) ([]string, error) {
	out, err := l.runner.Run(ctx, []string{"configure", "list-profiles"})
	if err != nil {
		return nil, err
	}

	var profiles []string
	for _, line := range strings.Split(string(out), "\n") {
		if p := strings.TrimSpace(line); p != "" {
			profiles = append(profiles, p)
		}
	}
	sort.Strings(profiles)
	return profiles, nil
}

// ListRegions returns the static region list unless live listing is enabled
func (l *CLILister) ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error) {
	if !l.liveRegions {
		regions := make([]string, len(l.regions))
		copy(regions, l.regions)
		return regions, nil
	}

	var resp struct {
		Regions []struct {
			RegionName string `json:"RegionName"`
		} `json:"Regions"`
	}
	args := []string{"--profile", path.Profile, "--region", defaultQueryRegion(l.regions), "ec2", "describe-regions", "--output", "json"}
	if err := l.runJSON(ctx, args, &resp); err != nil {
		return nil, err
	}

	regions := make([]string, 0, len(resp.Regions))
	for _, r := range resp.Regions {
		regions = append(regions, r.RegionName)
	}
	sort.Strings(regions)
	return regions, nil
}

// ListClusters returns the cluster ARNs visible to the profile in the region
func (l *CLILister) ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return l.listPaged(ctx, scoped(path, "ecs", "list-clusters"), "clusterArns")
}

// ListServices returns the service ARNs of the cluster
func (l *CLILister) ListServices(ctx context.Context, path types.ResourcePath) ([]string, error) {
	args := scoped(path, "ecs", "list-services", "--cluster", path.Cluster)
	return l.listPaged(ctx, args, "serviceArns")
}

// ListTasks returns the task ARNs running for the service
func (l *CLILister) ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error) {
	args := scoped(path, "ecs", "list-tasks", "--cluster", path.Cluster, "--service-name", path.Service)
	return l.listPaged(ctx, args, "taskArns")
}

// ListContainers describes the task and returns its container names
func (l *CLILister) ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error) {
	var resp struct {
		Tasks []struct {
			Containers []struct {
				Name string `json:"name"`
			} `json:"containers"`
		} `json:"tasks"`
		Failures []struct {
			Arn    string `json:"arn"`
			Reason string `json:"reason"`
		} `json:"failures"`
	}
	args := scoped(path, "ecs", "describe-tasks", "--cluster", path.Cluster, "--tasks", path.Task)
	if err := l.runJSON(ctx, args, &resp); err != nil {
		return nil, err
	}

	if len(resp.Tasks) == 0 {
		if len(resp.Failures) > 0 {
			return nil, fmt.Errorf("describe task %s: %s", resp.Failures[0].Arn, resp.Failures[0].Reason)
		}
		return nil, nil
	}

	containers := make([]string, 0, len(resp.Tasks[0].Containers))
	for _, c := range resp.Tasks[0].Containers {
		containers = append(containers, c.Name)
	}
	return containers, nil
}

// listPaged follows nextToken until the listing is exhausted. The CLI's own
// paginator is turned off so the service token reaches us.
func (l *CLILister) listPaged(ctx context.Context, args []string, field string) ([]string, error) {
	base := append(append([]string{}, args...), "--no-paginate")

	var all []string
	token := ""
	for {
		pageArgs := base
		if token != "" {
			pageArgs = append(append([]string{}, base...), "--next-token", token)
		}

		var page map[string]json.RawMessage
		if err := l.runJSON(ctx, pageArgs, &page); err != nil {
			return nil, err
		}

		var items []string
		if raw, ok := page[field]; ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("decode %s: %w", field, err)
			}
		}
		all = append(all, items...)

		token = ""
		if raw, ok := page["nextToken"]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &token); err != nil {
				return nil, fmt.Errorf("decode nextToken: %w", err)
			}
		}
		if token == "" {
			return all, nil
		}
	}
}

func (l *CLILister) runJSON(ctx context.Context, args []string, v any) error {
	out, err := l.runner.Run(ctx, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("decode aws %s output: %w", strings.Join(args, " "), err)
	}
	return nil
}

// scoped prefixes args with the profile and region of path
func scoped(path types.ResourcePath, args ...string) []string {
	full := []string{"--profile", path.Profile, "--region", path.Region}
	full = append(full, args...)
	return append(full, "--output", "json")
}

func defaultQueryRegion(regions []string) string {
	if len(regions) > 0 {
		return regions[0]
	}
	return DefaultRegions[0]
}
