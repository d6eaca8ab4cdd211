package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/pkg/hefs"
)

// SubmissionManager implements hefs.SubmissionsClient. Submissions are only
// listed per project, so the manager never hydrates itself and is ready as
// soon as it exists.
type SubmissionManager struct {
	*readiness
	entityCache[*hefs.Submission]

	client *Client
}

func newSubmissionManager(client *Client) *SubmissionManager {
	manager := &SubmissionManager{
		readiness:   newReadiness(),
		entityCache: newEntityCache[*hefs.Submission](),
		client:      client,
	}
	manager.markReady()

	return manager
}

// Fetch implements hefs.SubmissionsClient.Fetch. There is no item endpoint:
// a forced fetch re-lists the owning project's submissions, and identifiers
// that were never cached return hefs.ErrNotCached.
func (m *SubmissionManager) Fetch(ctx context.Context, id string, opts ...hefs.FetchOption) (*hefs.Submission, error) {
	if id == "" {
		return nil, &hefs.ValidationError{Op: "fetching submission", Reason: "id must not be empty"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	cached, ok := m.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("fetching submission %s: %w", id, hefs.ErrNotCached)
	}

	if !options.Force {
		return cached, nil
	}

	submissions, err := m.fetchForProject(ctx, cached.ProjectID, options.Cache, options.Cache)
	if err != nil {
		return nil, err
	}

	for _, submission := range submissions {
		if submission.ID == id {
			return submission, nil
		}
	}

	return nil, fmt.Errorf("submission %s is no longer listed for project %s: %w", id, cached.ProjectID, hefs.ErrNotCached)
}

// FetchAll implements hefs.SubmissionsClient.FetchAll. A forced fetch lists
// the submissions of every cached project.
func (m *SubmissionManager) FetchAll(ctx context.Context, opts ...hefs.FetchOption) ([]*hefs.Submission, error) {
	options := hefs.ApplyFetchOptions(opts...)

	if !options.Force {
		return m.cache.Values(), nil
	}

	return m.fetchForProjects(ctx, m.client.projects.Cache().Values(), options.Cache, options.Cache, nil)
}

// Create implements hefs.SubmissionsClient.Create. Identifiers in configs
// are dropped so the server assigns new ones.
func (m *SubmissionManager) Create(
	ctx context.Context,
	configs []*hefs.SubmissionConfig,
	opts ...hefs.FetchOption,
) ([]*hefs.Submission, error) {
	if len(configs) == 0 {
		return nil, &hefs.ValidationError{Op: "creating submissions", Reason: "at least one submission config is required"}
	}

	payload := make([]hefs.SubmissionConfig, 0, len(configs))

	for i, config := range configs {
		if config == nil {
			return nil, &hefs.ValidationError{
				Op:     "creating submissions",
				Reason: fmt.Sprintf("submission config %d must not be nil", i),
			}
		}

		entry := *config
		entry.ID = ""
		payload = append(payload, entry)
	}

	options := hefs.ApplyFetchOptions(opts...)

	resp, err := m.client.httpClient.Patch(ctx, m.client.endpoint(hefs.EndpointSubmissions, ""), payload)
	if err != nil {
		return nil, fmt.Errorf("creating submissions: %w", err)
	}

	created, err := decodeList(resp.Body, "submission", submissionConfigID, m.client.logger)
	if err != nil {
		return nil, err
	}

	submissions := make([]*hefs.Submission, 0, len(created))

	for _, config := range created {
		if !options.Cache {
			submissions = append(submissions, m.build(config))

			continue
		}

		submission := m.store(config)
		m.linkToProject(submission)
		submissions = append(submissions, submission)
	}

	return submissions, nil
}

// Edit implements hefs.SubmissionsClient.Edit.
func (m *SubmissionManager) Edit(
	ctx context.Context,
	submission *hefs.Submission,
	config *hefs.SubmissionConfig,
) (*hefs.Submission, error) {
	if submission == nil || config == nil {
		return nil, &hefs.ValidationError{Op: "editing submission", Reason: "submission and config must not be nil"}
	}

	payload := *config
	payload.ID = submission.ID

	resp, err := m.client.httpClient.Patch(
		ctx,
		m.client.endpoint(hefs.EndpointSubmissions, ""),
		[]hefs.SubmissionConfig{payload},
	)
	if err != nil {
		return nil, fmt.Errorf("editing submission %s: %w", submission.ID, err)
	}

	updated, err := decodeOne[hefs.SubmissionConfig](resp.Body, "submission")
	if err != nil {
		return nil, err
	}

	m.writes.Lock()
	defer m.writes.Unlock()

	previous := submission.Project
	submission.Apply(*updated)

	if previous != nil && previous != submission.Project && previous.Submissions != nil {
		previous.Submissions.Cache().Delete(submission.ID)
	}

	if cached, ok := m.cache.Get(submission.ID); ok && cached == submission {
		m.linkToProject(submission)
	}

	return submission, nil
}

// Delete implements hefs.SubmissionsClient.Delete.
func (m *SubmissionManager) Delete(ctx context.Context, submission *hefs.Submission) error {
	if submission == nil {
		return &hefs.ValidationError{Op: "deleting submission", Reason: "submission must not be nil"}
	}

	body := []map[string]string{{"_id": submission.ID}}

	_, err := m.client.httpClient.DeleteWithBody(ctx, m.client.endpoint(hefs.EndpointSubmissions, ""), body)
	if err != nil {
		return fmt.Errorf("deleting submission %s: %w", submission.ID, err)
	}

	m.writes.Lock()
	defer m.writes.Unlock()

	m.cache.Delete(submission.ID)

	if submission.Project != nil && submission.Project.Submissions != nil {
		submission.Project.Submissions.Cache().Delete(submission.ID)
	}

	return nil
}

// fetchForProject lists one project's submissions. nested stores them in the
// project's own set, global in the manager's cache.
func (m *SubmissionManager) fetchForProject(ctx context.Context, projectID string, nested, global bool) ([]*hefs.Submission, error) {
	resp, err := m.client.httpClient.Get(ctx, m.client.endpoint(hefs.EndpointSubmissions, projectID), nil)
	if err != nil {
		return nil, fmt.Errorf("listing submissions for project %s: %w", projectID, err)
	}

	configs, err := decodeList(resp.Body, "submission", submissionConfigID, m.client.logger)
	if err != nil {
		return nil, err
	}

	project := m.client.projects.Resolve(hefs.ProjectID(projectID))
	submissions := make([]*hefs.Submission, 0, len(configs))

	for _, config := range configs {
		if config.Project == "" {
			config.Project = hefs.FlexibleID(projectID)
		}

		var submission *hefs.Submission
		if global {
			submission = m.store(config)
		} else {
			submission = m.build(config)
		}

		if nested && project != nil && project.Submissions != nil {
			project.Submissions.Cache().Set(submission.ID, submission)
		}

		submissions = append(submissions, submission)
	}

	return submissions, nil
}

// fetchForProjects lists the submissions of every project, at most
// DefaultConcurrencyLimit at a time. Results keep the project order. Each
// failure is passed to onError, if set, and the joined error returned.
func (m *SubmissionManager) fetchForProjects(
	ctx context.Context,
	projects []*hefs.Project,
	nested, global bool,
	onError func(error),
) ([]*hefs.Submission, error) {
	results := make([][]*hefs.Submission, len(projects))
	errs := make([]error, len(projects))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, constants.DefaultConcurrencyLimit)

	for i, project := range projects {
		waitGroup.Add(1)

		go func(index int, project *hefs.Project) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			submissions, err := m.fetchForProject(ctx, project.ID, nested, global)
			if err != nil {
				if onError != nil {
					onError(err)
				}

				errs[index] = err

				return
			}

			results[index] = submissions
		}(i, project)
	}

	waitGroup.Wait()

	all := make([]*hefs.Submission, 0)
	for _, submissions := range results {
		all = append(all, submissions...)
	}

	return all, errors.Join(errs...)
}

func (m *SubmissionManager) build(config *hefs.SubmissionConfig) *hefs.Submission {
	return hefs.NewSubmission(*config, m.client)
}

// store overwrites the cached submission in place or caches a new one.
func (m *SubmissionManager) store(config *hefs.SubmissionConfig) *hefs.Submission {
	m.writes.Lock()
	defer m.writes.Unlock()

	if submission, ok := m.cache.Get(config.ID); ok {
		submission.Apply(*config)

		return submission
	}

	submission := m.build(config)
	m.cache.Set(submission.ID, submission)

	return submission
}

func (m *SubmissionManager) linkToProject(submission *hefs.Submission) {
	if submission.Project != nil && submission.Project.Submissions != nil {
		submission.Project.Submissions.Cache().Set(submission.ID, submission)
	}
}
