// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerdb

import (
	"github.com/rs/zerolog"
	"gitlab.com/jaxnet/auxpow/corelog"
)

var log = corelog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	log = corelog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger zerolog.Logger) {
	log = logger
}
