/*
 * Copyright 2025 Big Yellow Jacket Security.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// prefsctl inspects and edits the stored dashboard preferences through the
// same storage backend the dashboard uses.
//
//	prefsctl -config dashboard.json show
//	prefsctl -config dashboard.json set patch.json
//	prefsctl -config dashboard.json clear
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/config"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/kv"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/prefs"
)

const defaultConfigPath = "/etc/bigyellowjacket/dashboard.json"

// toolConfig relaxes the dashboard validation: the preference tool only
// needs the storage section of the shared config file.
type toolConfig struct {
	models.DashboardConfig
}

func (c *toolConfig) Validate() error {
	return c.Storage.Validate()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("prefsctl: %v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: prefsctl [flags] <command>

Commands:
  show              print the stored preference record
  set <patch.json>  merge a partial update into the record ("-" reads stdin)
  clear             remove the stored record entirely

Flags:
`)
	flag.PrintDefaults()
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "Path to dashboard config file")
	keyOverride := flag.String("key", "", "Preference slot key override")

	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cfg toolConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := kv.Open(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	defer func() {
		_ = store.Close()
	}()

	var opts []prefs.Option

	switch {
	case *keyOverride != "":
		opts = append(opts, prefs.WithKey(*keyOverride))
	case cfg.Storage.Key != "":
		opts = append(opts, prefs.WithKey(cfg.Storage.Key))
	}

	// Store diagnostics go to stderr so command output stays parseable.
	toolLog, err := logger.NewComponent(ctx, "prefsctl", &logger.Config{Level: "warn", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	prefsStore := prefs.NewStore(store, toolLog, opts...)

	switch cmd := flag.Arg(0); cmd {
	case "show":
		return show(ctx, prefsStore)
	case "set":
		return set(ctx, prefsStore, flag.Arg(1))
	case "clear":
		prefsStore.Clear(ctx)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func show(ctx context.Context, store *prefs.Store) error {
	record, source := store.LoadWithSource(ctx)

	fmt.Fprintf(os.Stderr, "source: %s\n", source)

	return printRecord(record)
}

func set(ctx context.Context, store *prefs.Store, patchPath string) error {
	if patchPath == "" {
		return fmt.Errorf("set requires a patch file (or \"-\" for stdin)")
	}

	var (
		raw []byte
		err error
	)

	if patchPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(patchPath)
	}

	if err != nil {
		return fmt.Errorf("failed to read patch: %w", err)
	}

	// Strict decoding catches typos before they silently vanish in the
	// shallow merge.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var patch models.PreferencesPatch
	if err := dec.Decode(&patch); err != nil {
		return fmt.Errorf("failed to parse patch: %w", err)
	}

	store.Save(ctx, &patch)

	return printRecord(store.Load(ctx))
}

func printRecord(record *models.Preferences) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(record)
}
