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

package subscription

import (
	"net/url"
	"regexp"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	gpubsub "github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/pubsub"
)

const (
	// MinAckDeadline is the minimum ack deadline the service accepts.
	MinAckDeadline = 10 * time.Second
	// MaxAckDeadline is the maximum ack deadline the service accepts.
	MaxAckDeadline = 600 * time.Second
	// MinRetentionDuration is the minimum message retention duration.
	MinRetentionDuration = 10 * time.Minute
	// MaxRetentionDuration is the maximum message retention duration (7 days).
	MaxRetentionDuration = 7 * 24 * time.Hour
	// MinExpirationTTL is the minimum subscription expiration TTL (1 day).
	MinExpirationTTL = 24 * time.Hour
	// MinDeliveryAttempts is the minimum dead-letter delivery attempt count.
	MinDeliveryAttempts = 5
	// MaxDeliveryAttempts is the maximum dead-letter delivery attempt count.
	MaxDeliveryAttempts = 100
	// DefaultMaxDeliveryAttempts is applied when a dead-letter topic is set
	// without an explicit attempt count.
	DefaultMaxDeliveryAttempts = 5
)

// DeliveryMode selects how the subscription delivers messages.
type DeliveryMode string

const (
	// DeliveryPull is the default pull delivery.
	DeliveryPull DeliveryMode = "pull"
	// DeliveryPush delivers messages to a push endpoint.
	DeliveryPush DeliveryMode = "push"
)

var (
	// Label restrictions per https://cloud.google.com/resource-manager/docs/labels-overview
	labelKeyRE   = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,62}$`)
	labelValueRE = regexp.MustCompile(`^[a-z0-9_-]{0,63}$`)
)

// Spec is the validated description of the subscription to create. String
// inputs from the pipeline are parsed into it before the run starts; zero
// values mean "not provided, let the service default".
type Spec struct {
	// Project is the ID of the project that owns the subscription. Empty
	// means it gets resolved from the environment or metadata server.
	Project string

	// Subscription is the subscription ID, unique within the project. In the
	// short form, e.g. 'orders-worker', not 'projects/p/subscriptions/orders-worker'.
	Subscription string

	// Topic is the ID of the topic to attach to, in the short form.
	Topic string

	// TopicProject is the ID of the project that owns the topic, when it
	// differs from Project.
	TopicProject string

	// Delivery selects pull or push delivery.
	Delivery DeliveryMode

	// PushEndpoint is the HTTPS endpoint for push delivery.
	PushEndpoint string

	// PushAuthServiceAccount, when set, makes push requests carry an OIDC
	// token minted for this service account.
	PushAuthServiceAccount string

	// Filter is the message filter expression. Immutable after creation.
	Filter string

	// Labels are attached to the subscription resource.
	Labels map[string]string

	// AckDeadline is the maximum time after receiving a message before the
	// subscriber must acknowledge it.
	AckDeadline time.Duration

	// RetainAckedMessages defines whether to retain acknowledged messages
	// within the RetentionDuration window.
	RetainAckedMessages bool

	// RetentionDuration defines how long to retain messages in backlog, from
	// the time of publish.
	RetentionDuration time.Duration

	// ExpirationTTL is the inactivity window after which the subscription is
	// dropped. Nil means the service default, zero means never expire.
	ExpirationTTL *time.Duration

	// MessageOrdering enables ordered delivery per ordering key.
	MessageOrdering bool

	// ExactlyOnce enables exactly-once delivery.
	ExactlyOnce bool

	// DeadLetterTopic is the ID of the topic undeliverable messages are
	// forwarded to, in the short form.
	DeadLetterTopic string

	// DeadLetterTopicProject is the ID of the project that owns the
	// dead-letter topic, when it differs from the subscription's project.
	DeadLetterTopicProject string

	// MaxDeliveryAttempts bounds delivery attempts before dead-lettering.
	MaxDeliveryAttempts int
}

// Validate checks the whole spec and returns every violation found, combined.
func (s *Spec) Validate() error {
	var errs error

	// Subscription [required]
	if s.Subscription == "" {
		errs = multierr.Append(errs, errors.New("subscription: missing"))
	} else if err := ValidateResourceID(s.Subscription); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "subscription"))
	}

	// Topic [required]
	if s.Topic == "" {
		errs = multierr.Append(errs, errors.New("topic: missing"))
	} else if err := ValidateResourceID(s.Topic); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "topic"))
	}

	if s.Project != "" {
		if err := ValidateProjectID(s.Project); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "project_id"))
		}
	}
	if s.TopicProject != "" {
		if err := ValidateProjectID(s.TopicProject); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "topic_project_id"))
		}
	}

	errs = multierr.Append(errs, s.validateDelivery())

	for k, v := range s.Labels {
		if !labelKeyRE.MatchString(k) {
			errs = multierr.Append(errs, errors.Errorf("labels: key %q must match %q", k, labelKeyRE))
		}
		if !labelValueRE.MatchString(v) {
			errs = multierr.Append(errs, errors.Errorf("labels: value %q must match %q", v, labelValueRE))
		}
	}

	if s.AckDeadline != 0 && (s.AckDeadline < MinAckDeadline || s.AckDeadline > MaxAckDeadline) {
		errs = multierr.Append(errs, errors.Errorf("ack_deadline: %v out of bounds [%v, %v]",
			s.AckDeadline, MinAckDeadline, MaxAckDeadline))
	}
	if s.RetentionDuration != 0 && (s.RetentionDuration < MinRetentionDuration || s.RetentionDuration > MaxRetentionDuration) {
		errs = multierr.Append(errs, errors.Errorf("retention_duration: %v out of bounds [%v, %v]",
			s.RetentionDuration, MinRetentionDuration, MaxRetentionDuration))
	}
	// A zero TTL means the subscription never expires.
	if s.ExpirationTTL != nil && *s.ExpirationTTL != 0 && *s.ExpirationTTL < MinExpirationTTL {
		errs = multierr.Append(errs, errors.Errorf("expiration_ttl: %v shorter than minimum %v",
			*s.ExpirationTTL, MinExpirationTTL))
	}

	errs = multierr.Append(errs, s.validateDeadLetter())

	return errs
}

func (s *Spec) validateDelivery() error {
	switch s.Delivery {
	case DeliveryPull, "":
		var errs error
		if s.PushEndpoint != "" {
			errs = multierr.Append(errs, errors.New("push_endpoint: only valid with push delivery"))
		}
		if s.PushAuthServiceAccount != "" {
			errs = multierr.Append(errs, errors.New("push_auth_service_account: only valid with push delivery"))
		}
		return errs
	case DeliveryPush:
		if s.PushEndpoint == "" {
			return errors.New("push_endpoint: required for push delivery")
		}
		u, err := url.Parse(s.PushEndpoint)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return errors.Errorf("push_endpoint: %q is not an https URL", s.PushEndpoint)
		}
		return nil
	default:
		return errors.Errorf("delivery: %q is not one of [%s, %s]", s.Delivery, DeliveryPull, DeliveryPush)
	}
}

func (s *Spec) validateDeadLetter() error {
	if s.DeadLetterTopic == "" {
		if s.MaxDeliveryAttempts != 0 {
			return errors.New("max_delivery_attempts: only valid with dead_letter_topic")
		}
		return nil
	}
	var errs error
	if err := ValidateResourceID(s.DeadLetterTopic); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "dead_letter_topic"))
	}
	if s.DeadLetterTopicProject != "" {
		if err := ValidateProjectID(s.DeadLetterTopicProject); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "dead_letter_topic"))
		}
	}
	if s.MaxDeliveryAttempts != 0 &&
		(s.MaxDeliveryAttempts < MinDeliveryAttempts || s.MaxDeliveryAttempts > MaxDeliveryAttempts) {
		errs = multierr.Append(errs, errors.Errorf("max_delivery_attempts: %d out of bounds [%d, %d]",
			s.MaxDeliveryAttempts, MinDeliveryAttempts, MaxDeliveryAttempts))
	}
	return errs
}

// Config assembles the subscription config to create, setting only what the
// spec provides. The resolved subscription project qualifies the dead-letter
// topic when no explicit project is set on it.
func (s *Spec) Config(topic gpubsub.Topic, project string) gpubsub.SubscriptionConfig {
	cfg := gpubsub.SubscriptionConfig{
		Topic:                     topic,
		AckDeadline:               s.AckDeadline,
		RetainAckedMessages:       s.RetainAckedMessages,
		RetentionDuration:         s.RetentionDuration,
		ExpirationPolicy:          s.ExpirationTTL,
		Labels:                    s.Labels,
		EnableMessageOrdering:     s.MessageOrdering,
		Filter:                    s.Filter,
		EnableExactlyOnceDelivery: s.ExactlyOnce,
	}
	if s.Delivery == DeliveryPush {
		cfg.PushConfig = pubsub.PushConfig{Endpoint: s.PushEndpoint}
		if s.PushAuthServiceAccount != "" {
			cfg.PushConfig.AuthenticationMethod = &pubsub.OIDCToken{
				ServiceAccountEmail: s.PushAuthServiceAccount,
			}
		}
	}
	if s.DeadLetterTopic != "" {
		attempts := s.MaxDeliveryAttempts
		if attempts == 0 {
			attempts = DefaultMaxDeliveryAttempts
		}
		dlProject := s.DeadLetterTopicProject
		if dlProject == "" {
			dlProject = project
		}
		cfg.DeadLetterPolicy = &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     TopicName(dlProject, s.DeadLetterTopic),
			MaxDeliveryAttempts: attempts,
		}
	}
	return cfg
}
