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

// Package systemd provides a probe for systemd unit state over D-Bus.
//
// The probe reports the number of loaded units, how many are active and how
// many have failed, and the load/active/sub state of each configured service:
//
//	p := systemd.Units{Services: []string{"containerd.service", "kubelet.service"}}
//	m, err := p.Probe(ctx)
//
//	{
//	    "units_total": 212,
//	    "units_active": 150,
//	    "units_failed": 1,
//	    "kubelet.service": {"load_state": "loaded", "active_state": "failed", "sub_state": "failed"}
//	}
//
// Services systemd does not know about are left out.
package systemd
