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
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	gpubsub "github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/pubsub"
)

func validSpec() *Spec {
	return &Spec{
		Project:      "my-gcp-project",
		Subscription: "orders-worker",
		Topic:        "orders",
		Delivery:     DeliveryPull,
	}
}

func TestSpecValidate(t *testing.T) {
	testCases := map[string]struct {
		mutate    func(*Spec)
		wantErrs  int
		wantInErr string
	}{
		"valid minimal": {
			mutate: func(s *Spec) {},
		},
		"valid empty delivery": {
			mutate: func(s *Spec) { s.Delivery = "" },
		},
		"valid full": {
			mutate: func(s *Spec) {
				s.Delivery = DeliveryPush
				s.PushEndpoint = "https://example.com/push"
				s.PushAuthServiceAccount = "pusher@my-gcp-project.iam.gserviceaccount.com"
				s.Filter = `attributes.kind = "order"`
				s.Labels = map[string]string{"team": "data", "env": "ci"}
				s.AckDeadline = 30 * time.Second
				s.RetainAckedMessages = true
				s.RetentionDuration = 24 * time.Hour
				ttl := 48 * time.Hour
				s.ExpirationTTL = &ttl
				s.MessageOrdering = true
				s.DeadLetterTopic = "orders-dead"
				s.MaxDeliveryAttempts = 10
			},
		},
		"missing subscription": {
			mutate:    func(s *Spec) { s.Subscription = "" },
			wantErrs:  1,
			wantInErr: "subscription: missing",
		},
		"missing topic": {
			mutate:    func(s *Spec) { s.Topic = "" },
			wantErrs:  1,
			wantInErr: "topic: missing",
		},
		"bad subscription id": {
			mutate:    func(s *Spec) { s.Subscription = "goog-reserved" },
			wantErrs:  1,
			wantInErr: "subscription",
		},
		"bad project id": {
			mutate:    func(s *Spec) { s.Project = "Bad_Project" },
			wantErrs:  1,
			wantInErr: "project_id",
		},
		"bad topic project id": {
			mutate:    func(s *Spec) { s.TopicProject = "Bad_Project" },
			wantErrs:  1,
			wantInErr: "topic_project_id",
		},
		"unknown delivery": {
			mutate:    func(s *Spec) { s.Delivery = "fanout" },
			wantErrs:  1,
			wantInErr: "delivery",
		},
		"push without endpoint": {
			mutate:    func(s *Spec) { s.Delivery = DeliveryPush },
			wantErrs:  1,
			wantInErr: "push_endpoint: required",
		},
		"push with http endpoint": {
			mutate: func(s *Spec) {
				s.Delivery = DeliveryPush
				s.PushEndpoint = "http://example.com/push"
			},
			wantErrs:  1,
			wantInErr: "not an https URL",
		},
		"pull with push fields": {
			mutate: func(s *Spec) {
				s.PushEndpoint = "https://example.com/push"
				s.PushAuthServiceAccount = "pusher@my-gcp-project.iam.gserviceaccount.com"
			},
			wantErrs:  2,
			wantInErr: "only valid with push delivery",
		},
		"bad label key": {
			mutate:    func(s *Spec) { s.Labels = map[string]string{"Team": "data"} },
			wantErrs:  1,
			wantInErr: "labels: key",
		},
		"bad label value": {
			mutate:    func(s *Spec) { s.Labels = map[string]string{"team": "Data Team"} },
			wantErrs:  1,
			wantInErr: "labels: value",
		},
		"ack deadline too short": {
			mutate:    func(s *Spec) { s.AckDeadline = 5 * time.Second },
			wantErrs:  1,
			wantInErr: "ack_deadline",
		},
		"ack deadline too long": {
			mutate:    func(s *Spec) { s.AckDeadline = 15 * time.Minute },
			wantErrs:  1,
			wantInErr: "ack_deadline",
		},
		"retention too short": {
			mutate:    func(s *Spec) { s.RetentionDuration = time.Minute },
			wantErrs:  1,
			wantInErr: "retention_duration",
		},
		"retention too long": {
			mutate:    func(s *Spec) { s.RetentionDuration = 8 * 24 * time.Hour },
			wantErrs:  1,
			wantInErr: "retention_duration",
		},
		"expiration too short": {
			mutate: func(s *Spec) {
				ttl := time.Hour
				s.ExpirationTTL = &ttl
			},
			wantErrs:  1,
			wantInErr: "expiration_ttl",
		},
		"expiration never": {
			mutate: func(s *Spec) {
				never := time.Duration(0)
				s.ExpirationTTL = &never
			},
		},
		"attempts without dead letter": {
			mutate:    func(s *Spec) { s.MaxDeliveryAttempts = 10 },
			wantErrs:  1,
			wantInErr: "max_delivery_attempts",
		},
		"attempts out of bounds": {
			mutate: func(s *Spec) {
				s.DeadLetterTopic = "orders-dead"
				s.MaxDeliveryAttempts = 3
			},
			wantErrs:  1,
			wantInErr: "max_delivery_attempts",
		},
		"bad dead letter topic": {
			mutate:    func(s *Spec) { s.DeadLetterTopic = "goog-dead" },
			wantErrs:  1,
			wantInErr: "dead_letter_topic",
		},
		"several problems at once": {
			mutate: func(s *Spec) {
				s.Subscription = ""
				s.Topic = ""
				s.Delivery = "fanout"
			},
			wantErrs: 3,
		},
	}
	for n, tc := range testCases {
		t.Run(n, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(spec)
			err := spec.Validate()
			if got := len(multierr.Errors(err)); got != tc.wantErrs {
				t.Fatalf("Validate() = %v, want %d error(s)", err, tc.wantErrs)
			}
			if tc.wantInErr != "" && !strings.Contains(err.Error(), tc.wantInErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tc.wantInErr)
			}
		})
	}
}

func TestSpecConfig(t *testing.T) {
	ttl := 48 * time.Hour
	spec := &Spec{
		Subscription:           "orders-worker",
		Topic:                  "orders",
		Delivery:               DeliveryPush,
		PushEndpoint:           "https://example.com/push",
		PushAuthServiceAccount: "pusher@my-gcp-project.iam.gserviceaccount.com",
		Filter:                 `attributes.kind = "order"`,
		Labels:                 map[string]string{"env": "ci"},
		AckDeadline:            30 * time.Second,
		RetainAckedMessages:    true,
		RetentionDuration:      24 * time.Hour,
		ExpirationTTL:          &ttl,
		MessageOrdering:        true,
		ExactlyOnce:            true,
		DeadLetterTopic:        "orders-dead",
	}

	want := gpubsub.SubscriptionConfig{
		PushConfig: pubsub.PushConfig{
			Endpoint: "https://example.com/push",
			AuthenticationMethod: &pubsub.OIDCToken{
				ServiceAccountEmail: "pusher@my-gcp-project.iam.gserviceaccount.com",
			},
		},
		AckDeadline:           30 * time.Second,
		RetainAckedMessages:   true,
		RetentionDuration:     24 * time.Hour,
		ExpirationPolicy:      &ttl,
		Labels:                map[string]string{"env": "ci"},
		EnableMessageOrdering: true,
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     "projects/my-gcp-project/topics/orders-dead",
			MaxDeliveryAttempts: DefaultMaxDeliveryAttempts,
		},
		Filter:                    `attributes.kind = "order"`,
		EnableExactlyOnceDelivery: true,
	}

	got := spec.Config(nil, "my-gcp-project")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected config (-want +got): %v", diff)
	}
}

func TestSpecConfigPullDefaults(t *testing.T) {
	got := validSpec().Config(nil, "my-gcp-project")
	if diff := cmp.Diff(gpubsub.SubscriptionConfig{}, got); diff != "" {
		t.Errorf("Unexpected config (-want +got): %v", diff)
	}
}
