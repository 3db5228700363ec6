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

package action

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/subscription"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("INPUT_SUBSCRIPTION", "orders-worker")
	t.Setenv("INPUT_TOPIC", "orders")
	t.Setenv("INPUT_PROJECT_ID", "my-gcp-project")
	t.Setenv("INPUT_RETAIN_ACKED_MESSAGES", "true")
	t.Setenv("INPUT_MAX_DELIVERY_ATTEMPTS", "10")

	in, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}
	want := &Inputs{
		ProjectID:           "my-gcp-project",
		Subscription:        "orders-worker",
		Topic:               "orders",
		Delivery:            "pull",
		RetainAckedMessages: true,
		MaxDeliveryAttempts: 10,
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Errorf("Unexpected inputs (-want +got): %v", diff)
	}
}

func TestFromEnvMissingRequired(t *testing.T) {
	t.Setenv("INPUT_SUBSCRIPTION", "orders-worker")
	// t.Setenv registers the restore; the check fires only when the variable
	// is absent, not merely empty.
	t.Setenv("INPUT_TOPIC", "orders")
	os.Unsetenv("INPUT_TOPIC")

	if _, err := FromEnv(); err == nil {
		t.Error("Expected error when a required input is missing")
	}
}

func TestFromEnvEmptyRequired(t *testing.T) {
	// The runner exports every declared input, so an omitted input arrives
	// as an empty string rather than an unset variable. That passes FromEnv
	// and is rejected by validation.
	t.Setenv("INPUT_SUBSCRIPTION", "orders-worker")
	t.Setenv("INPUT_TOPIC", "")

	in, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}
	spec, err := in.Spec()
	if err != nil {
		t.Fatalf("Spec() returned error: %v", err)
	}
	if err := spec.Validate(); err == nil {
		t.Error("Expected a validation error for an empty topic")
	}
}

func TestInputsSpec(t *testing.T) {
	never := time.Duration(0)
	ttl := 48 * time.Hour

	testCases := map[string]struct {
		in        Inputs
		want      *subscription.Spec
		wantInErr string
	}{
		"minimal": {
			in: Inputs{
				Subscription: "orders-worker",
				Topic:        "orders",
				Delivery:     "pull",
			},
			want: &subscription.Spec{
				Subscription: "orders-worker",
				Topic:        "orders",
				Delivery:     subscription.DeliveryPull,
			},
		},
		"full topic name": {
			in: Inputs{
				Subscription: "orders-worker",
				Topic:        "projects/data-platform-prod/topics/orders",
				Delivery:     "pull",
			},
			want: &subscription.Spec{
				Subscription: "orders-worker",
				Topic:        "orders",
				TopicProject: "data-platform-prod",
				Delivery:     subscription.DeliveryPull,
			},
		},
		"full topic name agreeing with topic project": {
			in: Inputs{
				Subscription:   "orders-worker",
				Topic:          "projects/data-platform-prod/topics/orders",
				TopicProjectID: "data-platform-prod",
				Delivery:       "pull",
			},
			want: &subscription.Spec{
				Subscription: "orders-worker",
				Topic:        "orders",
				TopicProject: "data-platform-prod",
				Delivery:     subscription.DeliveryPull,
			},
		},
		"full topic name conflicting with topic project": {
			in: Inputs{
				Subscription:   "orders-worker",
				Topic:          "projects/data-platform-prod/topics/orders",
				TopicProjectID: "another-project",
				Delivery:       "pull",
			},
			wantInErr: "topic",
		},
		"everything": {
			in: Inputs{
				ProjectID:              "my-gcp-project",
				Subscription:           "orders-worker",
				Topic:                  "orders",
				Delivery:               "PUSH",
				PushEndpoint:           "https://example.com/push",
				PushAuthServiceAccount: "pusher@my-gcp-project.iam.gserviceaccount.com",
				Filter:                 `attributes.kind = "order"`,
				Labels:                 "team=data, env=ci\nowner=predictr",
				AckDeadline:            "30s",
				RetainAckedMessages:    true,
				RetentionDuration:      "24h",
				ExpirationTTL:          "48h",
				MessageOrdering:        true,
				ExactlyOnce:            true,
				DeadLetterTopic:        "projects/my-gcp-project/topics/orders-dead",
				MaxDeliveryAttempts:    10,
			},
			want: &subscription.Spec{
				Project:                "my-gcp-project",
				Subscription:           "orders-worker",
				Topic:                  "orders",
				Delivery:               subscription.DeliveryPush,
				PushEndpoint:           "https://example.com/push",
				PushAuthServiceAccount: "pusher@my-gcp-project.iam.gserviceaccount.com",
				Filter:                 `attributes.kind = "order"`,
				Labels:                 map[string]string{"team": "data", "env": "ci", "owner": "predictr"},
				AckDeadline:            30 * time.Second,
				RetainAckedMessages:    true,
				RetentionDuration:      24 * time.Hour,
				ExpirationTTL:          &ttl,
				MessageOrdering:        true,
				ExactlyOnce:            true,
				DeadLetterTopic:        "orders-dead",
				DeadLetterTopicProject: "my-gcp-project",
				MaxDeliveryAttempts:    10,
			},
		},
		"expiration never": {
			in: Inputs{
				Subscription:  "orders-worker",
				Topic:         "orders",
				Delivery:      "pull",
				ExpirationTTL: "never",
			},
			want: &subscription.Spec{
				Subscription:  "orders-worker",
				Topic:         "orders",
				Delivery:      subscription.DeliveryPull,
				ExpirationTTL: &never,
			},
		},
		"bad ack deadline": {
			in: Inputs{
				Subscription: "orders-worker",
				Topic:        "orders",
				Delivery:     "pull",
				AckDeadline:  "30 seconds",
			},
			wantInErr: "ack_deadline",
		},
		"bad retention duration": {
			in: Inputs{
				Subscription:      "orders-worker",
				Topic:             "orders",
				Delivery:          "pull",
				RetentionDuration: "7d",
			},
			wantInErr: "retention_duration",
		},
		"bad expiration ttl": {
			in: Inputs{
				Subscription:  "orders-worker",
				Topic:         "orders",
				Delivery:      "pull",
				ExpirationTTL: "sometimes",
			},
			wantInErr: "expiration_ttl",
		},
		"bad labels": {
			in: Inputs{
				Subscription: "orders-worker",
				Topic:        "orders",
				Delivery:     "pull",
				Labels:       "team data",
			},
			wantInErr: "labels",
		},
		"several problems at once": {
			in: Inputs{
				Subscription: "orders-worker",
				Topic:        "orders",
				Delivery:     "pull",
				AckDeadline:  "soon",
				Labels:       "team data",
			},
			wantInErr: "ack_deadline",
		},
	}
	for n, tc := range testCases {
		t.Run(n, func(t *testing.T) {
			got, err := tc.in.Spec()
			if tc.wantInErr != "" {
				if err == nil {
					t.Fatalf("Spec() = %+v, want error mentioning %q", got, tc.wantInErr)
				}
				if !strings.Contains(err.Error(), tc.wantInErr) {
					t.Errorf("Spec() error = %v, want mention of %q", err, tc.wantInErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Spec() returned error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Unexpected spec (-want +got): %v", diff)
			}
		})
	}
}
