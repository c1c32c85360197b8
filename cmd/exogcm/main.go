/*
Copyright © 2026 the ExoGCM authors.
This file is part of ExoGCM.

ExoGCM is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ExoGCM is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ExoGCM.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command exogcm assembles planetary atmosphere states into PSG
// configuration files.
package main

import (
	"fmt"
	"os"

	"github.com/exoclim/exogcm/exogcmutil"
)

func main() {
	if err := exogcmutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
