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
	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/metadata"
)

var (
	FakeProjectID = "fake-project-id"
)

type testMetadataClient struct {
	projectIDErr error
}

// Verify that it satisfies the metadata.Client interface.
var _ metadata.Client = &testMetadataClient{}

// NewTestClient returns a metadata client that resolves FakeProjectID.
func NewTestClient() metadata.Client {
	return &testMetadataClient{}
}

// NewTestClientWithErr returns a metadata client whose ProjectID fails.
func NewTestClientWithErr(err error) metadata.Client {
	return &testMetadataClient{projectIDErr: err}
}

func (m *testMetadataClient) ProjectID() (string, error) {
	if m.projectIDErr != nil {
		return "", m.projectIDErr
	}
	return FakeProjectID, nil
}
