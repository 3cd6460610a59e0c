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
	ConfigDir  = ".mirdb"
	ConfigFile = "config"

	DefaultServer  = "https://sg-urc.io.mi.com"
	DefaultCountry = "FR"
	// DefaultVersion is the client version the vendor API expects
	DefaultVersion = 6034
	DefaultDBFile  = "mirdb.db"
	DefaultOutput  = "."
	// DefaultFrequency is the carrier assumed for patterns that carry none
	DefaultFrequency = 38000
	DefaultLogLevel  = "info"
	DefaultApiPort   = 8086
)
