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

package kv

import (
	"errors"
)

var (
	errDirRequired     = errors.New("file store: root directory is required")
	errAddressRequired = errors.New("redis store: address is required")
	errNatsURLRequired = errors.New("nats store: url is required")
	errBucketRequired  = errors.New("nats store: bucket is required")
	errDSNRequired     = errors.New("postgres store: dsn is required")
)
