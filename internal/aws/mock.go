package aws

import (
	"context"
	"sort"

	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// MockLister serves a fixed fake ECS estate for demos and tests
type MockLister struct {
	Profiles   []string
	Regions    []string
	Clusters   map[string][]string // profile/region -> cluster ARNs
	Services   map[string][]string // cluster -> service ARNs
	Tasks      map[string][]string // service -> task ARNs
	Containers map[string][]string // task -> container names
}

// NewMockLister creates a mock lister populated with fake resources
func NewMockLister() *MockLister {
	m := &MockLister{
		Clusters:   make(map[string][]string),
		Services:   make(map[string][]string),
		Tasks:      make(map[string][]string),
		Containers: make(map[string][]string),
	}
	m.populateMockData()
	return m
}

func (m *MockLister) populateMockData() {
	m.Profiles = []string{"default", "production", "staging"}
	m.Regions = append([]string{}, DefaultRegions...)

	const (
		prodWeb  = "arn:aws:ecs:us-west-2:111111111111:cluster/web"
		prodJobs = "arn:aws:ecs:us-west-2:111111111111:cluster/jobs"
		stageWeb = "arn:aws:ecs:us-east-1:222222222222:cluster/web-staging"
	)

	m.Clusters[mockScope("production", "us-west-2")] = []string{prodWeb, prodJobs}
	m.Clusters[mockScope("staging", "us-east-1")] = []string{stageWeb}
	m.Clusters[mockScope("default", "us-west-2")] = []string{prodWeb}

	frontend := "arn:aws:ecs:us-west-2:111111111111:service/web/frontend"
	api := "arn:aws:ecs:us-west-2:111111111111:service/web/backend-api"
	worker := "arn:aws:ecs:us-west-2:111111111111:service/jobs/worker"
	stageAPI := "arn:aws:ecs:us-east-1:222222222222:service/web-staging/backend-api"

	m.Services[prodWeb] = []string{frontend, api}
	m.Services[prodJobs] = []string{worker}
	m.Services[stageWeb] = []string{stageAPI}

	m.Tasks[frontend] = []string{
		"arn:aws:ecs:us-west-2:111111111111:task/web/7d8f9cabc12",
		"arn:aws:ecs:us-west-2:111111111111:task/web/7d8f9cdef34",
	}
	m.Tasks[api] = []string{"arn:aws:ecs:us-west-2:111111111111:task/web/6b5c4dxyz56"}
	m.Tasks[worker] = []string{"arn:aws:ecs:us-west-2:111111111111:task/jobs/5c9d3amno90"}
	m.Tasks[stageAPI] = []string{"arn:aws:ecs:us-east-1:222222222222:task/web-staging/8a7f2eqrs78"}

	for _, tasks := range m.Tasks {
		for _, task := range tasks {
			m.Containers[task] = []string{"app"}
		}
	}
	m.Containers["arn:aws:ecs:us-west-2:111111111111:task/web/7d8f9cabc12"] = []string{"app", "envoy", "log-router"}
	m.Containers["arn:aws:ecs:us-west-2:111111111111:task/web/7d8f9cdef34"] = []string{"app", "envoy", "log-router"}
}

func mockScope(profile, region string) string {
	return profile + "/" + region
}

// ListProfiles returns the fake profiles
func (m *MockLister) ListProfiles(ctx context.Context) ([]string, error) {
	profiles := append([]string{}, m.Profiles...)
	sort.Strings(profiles)
	return profiles, nil
}

// ListRegions returns the fake regions
func (m *MockLister) ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return append([]string{}, m.Regions...), nil
}

// ListClusters returns clusters for the profile and region
func (m *MockLister) ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return append([]string{}, m.Clusters[mockScope(path.Profile, path.Region)]...), nil
}

// ListServices returns services in the cluster
func (m *MockLister) ListServices(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return append([]string{}, m.Services[path.Cluster]...), nil
}

// ListTasks returns tasks of the service
func (m *MockLister) ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return append([]string{}, m.Tasks[path.Service]...), nil
}

// ListContainers returns the containers of the task
func (m *MockLister) ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return append([]string{}, m.Containers[path.Task]...), nil
}
