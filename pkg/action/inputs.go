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

// Package action implements the CI runner contract: inputs arrive as
// INPUT_* environment variables, outputs leave through the GITHUB_OUTPUT
// file.
package action

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/subscription"
)

// Inputs are the raw step inputs, unparsed. The runner exposes an input
// named `foo` as the INPUT_FOO environment variable; everything arrives as
// a string and empty means not provided.
type Inputs struct {
	// ProjectID is the project owning the subscription. Optional, resolved
	// from the environment or metadata server when empty.
	ProjectID string `envconfig:"PROJECT_ID"`

	// Subscription is the ID of the subscription to create.
	Subscription string `envconfig:"SUBSCRIPTION" required:"true"`

	// Topic is the topic to attach to. Either the ID within the project or
	// the full 'projects/{project}/topics/{topic}' name.
	Topic string `envconfig:"TOPIC" required:"true"`

	// TopicProjectID is the project owning the topic, when not the
	// subscription's project.
	TopicProjectID string `envconfig:"TOPIC_PROJECT_ID"`

	// Delivery is 'pull' or 'push'.
	Delivery string `envconfig:"DELIVERY" default:"pull"`

	// PushEndpoint is the HTTPS endpoint push delivery posts to.
	PushEndpoint string `envconfig:"PUSH_ENDPOINT"`

	// PushAuthServiceAccount is the service account email used to mint OIDC
	// tokens on push requests.
	PushAuthServiceAccount string `envconfig:"PUSH_AUTH_SERVICE_ACCOUNT"`

	// Filter is the message filter expression.
	Filter string `envconfig:"FILTER"`

	// Labels are 'key=value' pairs, separated by commas or newlines.
	Labels string `envconfig:"LABELS"`

	// AckDeadline is a duration string, e.g. '30s'.
	AckDeadline string `envconfig:"ACK_DEADLINE"`

	// RetainAckedMessages keeps acknowledged messages within the retention
	// window.
	RetainAckedMessages bool `envconfig:"RETAIN_ACKED_MESSAGES"`

	// RetentionDuration is a duration string, e.g. '168h'.
	RetentionDuration string `envconfig:"RETENTION_DURATION"`

	// ExpirationTTL is a duration string, or 'never'.
	ExpirationTTL string `envconfig:"EXPIRATION_TTL"`

	// MessageOrdering enables ordered delivery.
	MessageOrdering bool `envconfig:"MESSAGE_ORDERING"`

	// ExactlyOnce enables exactly-once delivery.
	ExactlyOnce bool `envconfig:"EXACTLY_ONCE"`

	// DeadLetterTopic is the topic undeliverable messages go to; ID or full
	// name.
	DeadLetterTopic string `envconfig:"DEAD_LETTER_TOPIC"`

	// MaxDeliveryAttempts bounds delivery attempts before dead-lettering.
	MaxDeliveryAttempts int `envconfig:"MAX_DELIVERY_ATTEMPTS"`
}

// FromEnv reads the step inputs off the environment.
func FromEnv() (*Inputs, error) {
	var in Inputs
	if err := envconfig.Process("INPUT", &in); err != nil {
		return nil, errors.Wrap(err, "failed to process step inputs")
	}
	return &in, nil
}

// Spec parses the raw inputs into a subscription spec, combining every parse
// failure into one error. Bounds and cross-field rules are left to
// Spec.Validate.
func (in *Inputs) Spec() (*subscription.Spec, error) {
	var errs error

	spec := &subscription.Spec{
		Project:                in.ProjectID,
		Subscription:           in.Subscription,
		TopicProject:           in.TopicProjectID,
		Delivery:               subscription.DeliveryMode(strings.ToLower(in.Delivery)),
		PushEndpoint:           in.PushEndpoint,
		PushAuthServiceAccount: in.PushAuthServiceAccount,
		Filter:                 in.Filter,
		RetainAckedMessages:    in.RetainAckedMessages,
		MessageOrdering:        in.MessageOrdering,
		ExactlyOnce:            in.ExactlyOnce,
		MaxDeliveryAttempts:    in.MaxDeliveryAttempts,
	}

	topic, topicProject, err := splitTopicRef(in.Topic, in.TopicProjectID)
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "topic"))
	} else {
		spec.Topic = topic
		spec.TopicProject = topicProject
	}

	dlTopic, dlProject, err := splitTopicRef(in.DeadLetterTopic, "")
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "dead_letter_topic"))
	} else {
		spec.DeadLetterTopic = dlTopic
		spec.DeadLetterTopicProject = dlProject
	}

	if in.Labels != "" {
		labels, err := parseLabels(in.Labels)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "labels"))
		} else {
			spec.Labels = labels
		}
	}

	if in.AckDeadline != "" {
		d, err := time.ParseDuration(in.AckDeadline)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("ack_deadline: %q is not a duration", in.AckDeadline))
		} else {
			spec.AckDeadline = d
		}
	}
	if in.RetentionDuration != "" {
		d, err := time.ParseDuration(in.RetentionDuration)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("retention_duration: %q is not a duration", in.RetentionDuration))
		} else {
			spec.RetentionDuration = d
		}
	}
	if in.ExpirationTTL != "" {
		switch strings.ToLower(in.ExpirationTTL) {
		case "never":
			never := time.Duration(0)
			spec.ExpirationTTL = &never
		default:
			d, err := time.ParseDuration(in.ExpirationTTL)
			if err != nil {
				errs = multierr.Append(errs, errors.Errorf("expiration_ttl: %q is not a duration or 'never'", in.ExpirationTTL))
			} else {
				spec.ExpirationTTL = &d
			}
		}
	}

	if errs != nil {
		return nil, errs
	}
	return spec, nil
}

// splitTopicRef accepts a topic as either an ID or a full
// 'projects/{project}/topics/{topic}' name and returns the ID and owning
// project. An explicitly given project must agree with the one embedded in a
// full name.
func splitTopicRef(ref, project string) (string, string, error) {
	if !strings.HasPrefix(ref, "projects/") {
		return ref, project, nil
	}
	embedded, id, ok := subscription.ParseTopicName(ref)
	if !ok {
		return "", "", errors.Errorf("%q is not a valid full topic name", ref)
	}
	if project != "" && project != embedded {
		return "", "", errors.Errorf("%q names project %q but %q was given", ref, embedded, project)
	}
	return id, embedded, nil
}

func parseLabels(raw string) (map[string]string, error) {
	labels := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		for _, pair := range strings.Split(line, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, value, found := strings.Cut(pair, "=")
			if !found {
				return nil, errors.Errorf("%q is not a key=value pair", pair)
			}
			labels[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return labels, nil
}
