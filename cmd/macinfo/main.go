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

// macinfo classifies MAC addresses the way the dashboard does and prints
// the result as JSON, one object per input address.
//
//	macinfo 08:00:27:aa:bb:cc 00-50-56-11-22-33
//	macinfo -strict ff:ff:ff:ff:ff:ff
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/macaddr"
)

func main() {
	strict := flag.Bool("strict", false, "reject malformed addresses instead of classifying leniently")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: macinfo [-strict] <address> [address...]\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, arg := range flag.Args() {
		mac, err := classify(arg, *strict)
		if err != nil {
			fmt.Fprintf(os.Stderr, "macinfo: %v\n", err)
			os.Exit(1)
		}

		if err := enc.Encode(mac); err != nil {
			fmt.Fprintf(os.Stderr, "macinfo: %v\n", err)
			os.Exit(1)
		}
	}
}

func classify(s string, strict bool) (macaddr.MacAddress, error) {
	if strict {
		return macaddr.Parse(s)
	}

	return macaddr.New(s), nil
}
