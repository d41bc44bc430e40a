/*
Copyright (c) Facebook, Inc. and its affiliates.

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

/*
Package sysclock adjusts the operating system's software clock.

Two primitives are exposed: Slew, a smooth rate-based correction that
avoids visible time jumps, and Set, a discontinuous step. Slewing is
bounded by the kernel; corrections too large to slew fail with EINVAL
and have to be applied as a step.
*/
package sysclock
