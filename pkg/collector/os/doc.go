// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package os provides the "os" probe: slow-changing operating system state
// recorded alongside the metrics so a table row can be tied to the kernel and
// boot configuration it was taken under.
//
// The record has three maps:
//
//	release  os-release fields (ID, VERSION_ID, PRETTY_NAME, ...)
//	cmdline  kernel boot parameters; bare flags are true, root= is omitted
//	kmod     loaded module name -> instance count from /proc/modules
//
// Flattened, these become columns such as os_release_VERSION_ID,
// os_cmdline_iommu and os_kmod_nvidia. A module that is unloaded later simply
// leaves its column empty in the rows after.
package os
