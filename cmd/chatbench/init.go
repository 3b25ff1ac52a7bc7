package main

import (
	"fmt"

	"github.com/germanamz/chatbench/pkg/benchdir"
)

func runInit(dirPath string, useDefaults bool) error {
	d := benchdir.New(dirPath)

	if d.HasConfig() {
		fmt.Printf("%s already has a config; leaving it untouched\n", d.Root())
		return benchdir.EnsureStructure(d)
	}

	if useDefaults {
		if err := benchdir.Bootstrap(d); err != nil {
			return err
		}
		fmt.Printf("Initialized %s\n", d.Root())
		return nil
	}

	configYAML, err := runWizard()
	if err != nil {
		return err
	}

	if err := benchdir.BootstrapWithConfig(d, configYAML); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", d.Root())

	return nil
}
