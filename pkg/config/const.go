/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

const (
	ConfigDir  = ".go-dis"
	ConfigFile = "config"
	CaptureDBFile = "capture.db"

	DefaultGroup     = "224.10.10.10"
	DefaultPort      = 9999
	DefaultHostAddr  = "0.0.0.0"
	DefaultTimeoutMs = 200
	DefaultBufSize   = 1024

	DefaultSiteID        = 1
	DefaultApplicationID = 1
	DefaultExerciseID    = 1

	DefaultLogLevel = "info"
)
