// main is the entry point for the airqc CLI.
package main

import (
	"github.com/huangsam/airqc/cmd"
	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/iocache"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	iocache.CloseStore()
	if err != nil {
		contract.LogFatal("Cannot run airqc", err)
	}
}
