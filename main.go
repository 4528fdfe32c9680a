// Package main is the entry point of kptv.
package main

import (
	"github.com/kptv-cli/kptv/cmd"
	"github.com/kptv-cli/kptv/config"
	"github.com/kptv-cli/kptv/internal/cache"
	"github.com/kptv-cli/kptv/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}
