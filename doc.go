/*
 *
 * Copyright 2023 CubeFS authors.
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
 *
 */

/*

# MetaBench: metadata throughput benchmarking over a namespace master

## Why

Key/value benchmarks measure data paths. MetaBench drives the metadata path
instead: every record is an entry in a hierarchical namespace, so a workload
exercises create, stat, attribute and delete operations on the master.

## Data Model

* Table, a directory directly under the root, /usertable by default

* Record, a file entry /<table>/<key>, its existence is the record

* Entry metadata, the attribute record the master keeps per path, returned
  as text on read

Record values are never transmitted, only metadata is benchmarked.

## Architecture

* Adapter - maps insert/read/update/delete onto namespace RPCs, scan is not
  supported

* Client context - one gRPC connection pool per process, reference counted
  master handles, bounded in-flight requests

* Master - namespace semantics over an ordered kv store (memory btree or
  badger), served via gRPC with stats and metrics over HTTP

* Bench - load and run phases with YCSB style workload properties

## Building Blocks

* gRPC
* Badger
* Prometheus
* Viper

*/

package metabench
