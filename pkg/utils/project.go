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

package utils

import (
	"os"

	"github.com/pkg/errors"

	metadataClient "github.com/predictr-io/gcp-pubsub-create-subscription/pkg/gclient/metadata"
)

const (
	// GoogleCloudProjectEnvKey is the env var the Cloud SDKs conventionally
	// read the project from.
	GoogleCloudProjectEnvKey = "GOOGLE_CLOUD_PROJECT"
	// ProjectIDEnvKey is the name of the fallback environmental variable for project ID.
	ProjectIDEnvKey = "PROJECT_ID"
)

// ProjectID returns the project ID by performing the following order:
// 1) if the input project ID is set, simply use it.
// 2) if there is a GOOGLE_CLOUD_PROJECT or PROJECT_ID environmental variable, use it.
// 3) ask the GCE metadata server.
func ProjectID(projectID string, client metadataClient.Client) (string, error) {
	if projectID != "" {
		return projectID, nil
	}
	for _, key := range []string{GoogleCloudProjectEnvKey, ProjectIDEnvKey} {
		if fromEnv := os.Getenv(key); fromEnv != "" {
			return fromEnv, nil
		}
	}
	project, err := client.ProjectID()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve project id from metadata server")
	}
	return project, nil
}
