/*
Copyright 2024 Predictr.io

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package subscription creates or verifies a Google Cloud Pub/Sub
// subscription for a single pipeline run.
package subscription

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	metadataClient "github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/metadata"
	gpubsub "github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/pubsub"
	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/utils"
)

const userAgent = "predictr-io/gcp-pubsub-create-subscription"

// Result is what the run reports back to the pipeline.
type Result struct {
	// Name is the fully qualified subscription name,
	// "projects/{project}/subscriptions/{subscription}".
	Name string

	// Created is true when this run created the subscription, false when it
	// already existed.
	Created bool
}

// Creator runs the create-or-verify sequence. The zero value is not usable;
// construct it with NewCreator and override the clients in tests.
type Creator struct {
	// CreateClientFn is the factory for the Pub/Sub client.
	CreateClientFn gpubsub.CreateFn

	// Metadata resolves the project ID when the spec does not carry one.
	Metadata metadataClient.Client

	Logger *zap.Logger
}

// NewCreator returns a Creator wired against the real GCP clients.
func NewCreator(logger *zap.Logger) *Creator {
	return &Creator{
		CreateClientFn: gpubsub.NewClient,
		Metadata:       metadataClient.NewDefaultMetadataClient(),
		Logger:         logger,
	}
}

// Run validates the spec and creates the subscription, or verifies that the
// existing one is attached to the requested topic. It is idempotent: a
// subscription that already matches is a success with Created=false.
func (c *Creator) Run(ctx context.Context, spec *Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid inputs")
	}

	project, err := utils.ProjectID(spec.Project, c.Metadata)
	if err != nil {
		return nil, err
	}
	topicProject := spec.TopicProject
	if topicProject == "" {
		topicProject = project
	}

	name := Name(project, spec.Subscription)
	wantTopic := TopicName(topicProject, spec.Topic)
	logger := c.Logger.With(
		zap.String("project", project),
		zap.String("topic", wantTopic),
		zap.String("subscription", name),
	)

	client, err := c.CreateClientFn(ctx, project, option.WithUserAgent(userAgent))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Pub/Sub client")
	}
	defer client.Close()

	// Load the subscription.
	sub := client.Subscription(spec.Subscription)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify subscription exists")
	}
	if exists {
		if err := verifyTopic(ctx, sub, wantTopic); err != nil {
			return nil, err
		}
		logger.Info("Previously created.")
		return &Result{Name: name, Created: false}, nil
	}

	// Load the topic.
	topic := client.TopicInProject(spec.Topic, topicProject)
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify topic exists")
	}
	if !ok {
		return nil, errors.Errorf("topic %s does not exist", wantTopic)
	}

	if _, err := client.CreateSubscription(ctx, spec.Subscription, spec.Config(topic, project)); err != nil {
		// Lost a race with a concurrent run; verify the winner's work instead.
		if status.Code(err) == codes.AlreadyExists {
			if err := verifyTopic(ctx, sub, wantTopic); err != nil {
				return nil, err
			}
			logger.Info("Created concurrently.")
			return &Result{Name: name, Created: false}, nil
		}
		return nil, errors.Wrap(err, "failed to create subscription")
	}

	logger.Info("Successfully created.")
	return &Result{Name: name, Created: true}, nil
}

// verifyTopic guards the idempotent path: an existing subscription counts
// only if it is still attached to the requested topic.
func verifyTopic(ctx context.Context, sub gpubsub.Subscription, want string) error {
	cfg, err := sub.Config(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get subscription config")
	}
	if cfg.Topic == nil || cfg.Topic.String() == DeletedTopic {
		return errors.New("topic of the existing subscription has been deleted")
	}
	if got := cfg.Topic.String(); got != want {
		return errors.Errorf("existing subscription is attached to %s, want %s", got, want)
	}
	return nil
}
