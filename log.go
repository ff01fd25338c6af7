// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import "go.uber.org/zap"

var log = zap.S()

func UpdateLogger(logger *zap.Logger) {
	zap.ReplaceGlobals(logger)
	log = zap.S()
}
