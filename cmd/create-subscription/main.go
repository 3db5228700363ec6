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

package main

import (
	"context"
	"flag"
	"log"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/action"
	"github.com/predictr-io/gcp-pubsub-create-subscription/pkg/subscription"
)

func main() {
	flag.Parse()

	ctx := context.Background()
	logCfg := zap.NewProductionConfig()
	logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatalf("Unable to create logger: %v", err)
	}
	defer logger.Sync()

	in, err := action.FromEnv()
	if err != nil {
		logger.Fatal("Failed to process step inputs.", zap.Error(err))
	}
	spec, err := in.Spec()
	if err != nil {
		logger.Fatal("Failed to parse step inputs.", zap.Error(err))
	}

	logger.Info("Pub/Sub create subscription step.",
		zap.String("subscription", spec.Subscription),
		zap.String("topic", spec.Topic),
	)

	result, err := subscription.NewCreator(logger).Run(ctx, spec)
	if err != nil {
		logger.Fatal("Step failed.", zap.Error(err))
	}

	outputs := action.NewOutputWriter(logger)
	if err := outputs.Set(action.OutputSubscription, result.Name); err != nil {
		logger.Fatal("Failed to write outputs.", zap.Error(err))
	}
	if err := outputs.Set(action.OutputCreated, strconv.FormatBool(result.Created)); err != nil {
		logger.Fatal("Failed to write outputs.", zap.Error(err))
	}

	logger.Info("Done.",
		zap.String("subscription", result.Name),
		zap.Bool("created", result.Created),
	)
}
