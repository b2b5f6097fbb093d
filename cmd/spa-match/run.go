// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/someonegg/spamatch/allocation"
)

func doRun(ctx context.Context,
	studentFile, topicFile, supervisorFile, outFile, configFile string,
	strict, verbose bool) error {

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopmentConfig().Build()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	inferrer, err := loadInferrer(configFile)
	if err != nil {
		return err
	}

	studentData, err := os.ReadFile(studentFile)
	if err != nil {
		return fmt.Errorf("load student file failed: %w", err)
	}
	topicData, err := os.ReadFile(topicFile)
	if err != nil {
		return fmt.Errorf("load topic file failed: %w", err)
	}
	supervisorData, err := os.ReadFile(supervisorFile)
	if err != nil {
		return fmt.Errorf("load supervisor file failed: %w", err)
	}

	matcher := &allocation.Matcher{
		Strict:   strict,
		Inferrer: inferrer,
		Logger:   logger,
	}

	students, topics, supervisors, errs := matcher.Parse(
		bytes.NewReader(studentData),
		bytes.NewReader(topicData),
		bytes.NewReader(supervisorData))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("input rejected with %d validation errors", len(errs))
	}

	report, summ := matcher.Match(students, topics, supervisors)
	fmt.Printf("%+v\n", summ)

	err = writeReport(outFile, report)
	if err != nil {
		return fmt.Errorf("write report file failed: %w", err)
	}

	return nil
}

func writeReport(file string, report *allocation.Report) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "   ")
	if err := encoder.Encode(report); err != nil {
		return err
	}

	return os.WriteFile(file, buf.Bytes(), 0644)
}
