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

package testing

import (
	"context"

	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/pubsub"
)

// TestSubscriptionData is the data used to configure the test Pub/Sub subscription.
type TestSubscriptionData struct {
	Exists    bool
	ExistsErr error
	ConfigErr error

	// ConfigTopic is the full name of the topic the fake's Config reports,
	// e.g. "projects/fake-project-id/topics/orders".
	ConfigTopic string
	Config      pubsub.SubscriptionConfig
}

// TestSubscription is a test Pub/Sub subscription.
type TestSubscription struct {
	name string
	data TestSubscriptionData
}

// Verify that it satisfies the pubsub.Subscription interface.
var _ pubsub.Subscription = &TestSubscription{}

// Exists implements Subscription.Exists.
func (s *TestSubscription) Exists(ctx context.Context) (bool, error) {
	return s.data.Exists, s.data.ExistsErr
}

// Config implements Subscription.Config.
func (s *TestSubscription) Config(ctx context.Context) (pubsub.SubscriptionConfig, error) {
	if s.data.ConfigErr != nil {
		return pubsub.SubscriptionConfig{}, s.data.ConfigErr
	}
	cfg := s.data.Config
	if s.data.ConfigTopic != "" {
		cfg.Topic = &TestTopic{name: s.data.ConfigTopic}
	}
	return cfg, nil
}

// String implements Subscription.String.
func (s *TestSubscription) String() string {
	return s.name
}
