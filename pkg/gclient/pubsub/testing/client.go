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
	"fmt"

	"google.golang.org/api/option"

	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/pubsub"
)

// TestClientCreator returns a pubsub.CreateFn used to construct the test Pub/Sub client.
func TestClientCreator(value interface{}) pubsub.CreateFn {
	var data TestClientData
	var ok bool
	if data, ok = value.(TestClientData); !ok {
		data = TestClientData{}
	}
	if data.CreateClientErr != nil {
		return func(ctx context.Context, projectID string, opts ...option.ClientOption) (pubsub.Client, error) {
			return nil, data.CreateClientErr
		}
	}

	return func(ctx context.Context, projectID string, opts ...option.ClientOption) (pubsub.Client, error) {
		return &testClient{
			project: projectID,
			data:    data,
		}, nil
	}
}

// TestClientData is the data used to configure the test Pub/Sub client.
type TestClientData struct {
	CreateClientErr       error
	CreateSubscriptionErr error
	CloseErr              error
	TopicData             TestTopicData
	SubscriptionData      TestSubscriptionData

	// CreateRecorder, when set, captures the arguments of the
	// CreateSubscription call so tests can assert on the built config.
	CreateRecorder *CreateRecorder
}

// CreateRecorder records a CreateSubscription call made against the test client.
type CreateRecorder struct {
	Called bool
	ID     string
	Config pubsub.SubscriptionConfig
}

// testClient is a test Pub/Sub client.
type testClient struct {
	project string
	data    TestClientData
}

// Verify that it satisfies the pubsub.Client interface.
var _ pubsub.Client = &testClient{}

// Close implements pubsub.Client.Close
func (c *testClient) Close() error {
	return c.data.CloseErr
}

// TopicInProject implements pubsub.Client.TopicInProject
func (c *testClient) TopicInProject(id, projectID string) pubsub.Topic {
	return &TestTopic{
		name: fmt.Sprintf("projects/%s/topics/%s", projectID, id),
		data: c.data.TopicData,
	}
}

// Subscription implements pubsub.Client.Subscription
func (c *testClient) Subscription(id string) pubsub.Subscription {
	return &TestSubscription{
		name: fmt.Sprintf("projects/%s/subscriptions/%s", c.project, id),
		data: c.data.SubscriptionData,
	}
}

// CreateSubscription implements pubsub.Client.CreateSubscription
func (c *testClient) CreateSubscription(ctx context.Context, id string, cfg pubsub.SubscriptionConfig) (pubsub.Subscription, error) {
	if r := c.data.CreateRecorder; r != nil {
		r.Called = true
		r.ID = id
		r.Config = cfg
	}
	if c.data.CreateSubscriptionErr != nil {
		return nil, c.data.CreateSubscriptionErr
	}
	return &TestSubscription{
		name: fmt.Sprintf("projects/%s/subscriptions/%s", c.project, id),
		data: c.data.SubscriptionData,
	}, nil
}
