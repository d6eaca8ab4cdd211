package client

import (
	"context"
	"fmt"

	"github.com/edqe14/hefs/pkg/hefs"
)

// ProjectSubmissions implements hefs.ProjectSubmissionsClient.
type ProjectSubmissions struct {
	entityCache[*hefs.Submission]

	project *hefs.Project
	client  *Client
}

func newProjectSubmissions(client *Client, project *hefs.Project, submissions ...*hefs.Submission) *ProjectSubmissions {
	return &ProjectSubmissions{
		entityCache: newEntityCache(submissions...),
		project:     project,
		client:      client,
	}
}

// Project returns the owning project.
func (p *ProjectSubmissions) Project() *hefs.Project {
	return p.project
}

// Create submits one or more submissions to this project. Identifiers are
// dropped and every config is pointed at this project.
func (p *ProjectSubmissions) Create(
	ctx context.Context,
	configs []*hefs.SubmissionConfig,
	opts ...hefs.FetchOption,
) ([]*hefs.Submission, error) {
	if len(configs) == 0 {
		return nil, &hefs.ValidationError{Op: "creating project submissions", Reason: "at least one submission config is required"}
	}

	payload := make([]*hefs.SubmissionConfig, 0, len(configs))

	for i, config := range configs {
		if config == nil {
			return nil, &hefs.ValidationError{
				Op:     "creating project submissions",
				Reason: fmt.Sprintf("submission config %d must not be nil", i),
			}
		}

		entry := *config
		entry.ID = ""
		entry.Project = hefs.FlexibleID(p.project.ID)
		payload = append(payload, &entry)
	}

	submissions, err := p.client.submissions.Create(ctx, payload, opts...)
	if err != nil {
		return nil, err
	}

	if hefs.ApplyFetchOptions(opts...).Cache {
		for _, submission := range submissions {
			p.cache.Set(submission.ID, submission)
		}
	}

	return submissions, nil
}
