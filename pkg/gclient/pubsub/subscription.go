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

package pubsub

import (
	"context"
	"time"

	"cloud.google.com/go/pubsub"
)

// SubscriptionConfig re-implements pubsub.SubscriptionConfig to allow us to
// use a wrapped Topic internally. Only the fields this action sets are
// carried.
type SubscriptionConfig struct {
	Topic               Topic
	PushConfig          pubsub.PushConfig
	AckDeadline         time.Duration
	RetainAckedMessages bool
	RetentionDuration   time.Duration
	// ExpirationPolicy distinguishes unset (nil, server default) from a zero
	// duration (never expires), mirroring optional.Duration in the SDK.
	ExpirationPolicy          *time.Duration
	Labels                    map[string]string
	EnableMessageOrdering     bool
	DeadLetterPolicy          *pubsub.DeadLetterPolicy
	Filter                    string
	EnableExactlyOnceDelivery bool
}

func (cfg SubscriptionConfig) toPubSub() pubsub.SubscriptionConfig {
	var topic *pubsub.Topic
	if t, ok := cfg.Topic.(*pubsubTopic); ok {
		topic = t.topic
	}
	pscfg := pubsub.SubscriptionConfig{
		Topic:                     topic,
		PushConfig:                cfg.PushConfig,
		AckDeadline:               cfg.AckDeadline,
		RetainAckedMessages:       cfg.RetainAckedMessages,
		RetentionDuration:         cfg.RetentionDuration,
		Labels:                    cfg.Labels,
		EnableMessageOrdering:     cfg.EnableMessageOrdering,
		DeadLetterPolicy:          cfg.DeadLetterPolicy,
		Filter:                    cfg.Filter,
		EnableExactlyOnceDelivery: cfg.EnableExactlyOnceDelivery,
	}
	if cfg.ExpirationPolicy != nil {
		pscfg.ExpirationPolicy = *cfg.ExpirationPolicy
	}
	return pscfg
}

func fromPubSub(cfg pubsub.SubscriptionConfig) SubscriptionConfig {
	wrapped := SubscriptionConfig{
		PushConfig:                cfg.PushConfig,
		AckDeadline:               cfg.AckDeadline,
		RetainAckedMessages:       cfg.RetainAckedMessages,
		RetentionDuration:         cfg.RetentionDuration,
		Labels:                    cfg.Labels,
		EnableMessageOrdering:     cfg.EnableMessageOrdering,
		DeadLetterPolicy:          cfg.DeadLetterPolicy,
		Filter:                    cfg.Filter,
		EnableExactlyOnceDelivery: cfg.EnableExactlyOnceDelivery,
	}
	if cfg.Topic != nil {
		wrapped.Topic = &pubsubTopic{topic: cfg.Topic}
	}
	if d, ok := cfg.ExpirationPolicy.(time.Duration); ok {
		wrapped.ExpirationPolicy = &d
	}
	return wrapped
}

// pubsubSubscription wraps pubsub.Subscription. Is the subscription that will be used everywhere except unit tests.
type pubsubSubscription struct {
	sub *pubsub.Subscription
}

// Verify that it satisfies the pubsub.Subscription interface.
var _ Subscription = &pubsubSubscription{}

// Exists implements pubsub.Subscription.Exists
func (s *pubsubSubscription) Exists(ctx context.Context) (bool, error) {
	return s.sub.Exists(ctx)
}

// Config implements pubsub.Subscription.Config
func (s *pubsubSubscription) Config(ctx context.Context) (SubscriptionConfig, error) {
	cfg, err := s.sub.Config(ctx)
	if err != nil {
		return SubscriptionConfig{}, err
	}
	return fromPubSub(cfg), nil
}

// String implements pubsub.Subscription.String
func (s *pubsubSubscription) String() string {
	return s.sub.String()
}
