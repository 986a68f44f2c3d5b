package main

import "tools.zach/dev/tend/internal/paths"

// ///////////////////////////////////////////////
// Path Aliases
// ///////////////////////////////////////////////

// DataPaths aliases [paths.DataDir] into the main package so that daemon
// code can reference path helpers without qualifying the internal package
// name. This file has no build constraints because path construction is
// platform-independent.
type DataPaths = paths.DataDir
