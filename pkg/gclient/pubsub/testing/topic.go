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

// TestTopicData is the data used to configure the test Pub/Sub topic.
type TestTopicData struct {
	Exists    bool
	ExistsErr error
}

// TestTopic is a test Pub/Sub topic.
type TestTopic struct {
	name string
	data TestTopicData
}

// Verify that it satisfies the pubsub.Topic interface.
var _ pubsub.Topic = &TestTopic{}

// Exists implements Topic.Exists.
func (t *TestTopic) Exists(ctx context.Context) (bool, error) {
	return t.data.Exists, t.data.ExistsErr
}

// String implements Topic.String.
func (t *TestTopic) String() string {
	return t.name
}
