/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"blockcanvas/internal/blockorder"
	"blockcanvas/internal/blocks"
	"blockcanvas/internal/catalog"
	"blockcanvas/internal/config"
	"blockcanvas/internal/crash"
	"blockcanvas/internal/geom"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/palette"
	"blockcanvas/internal/stack"
	"blockcanvas/internal/version"
)

// Viewport used for headless layouts.
var defaultViewport = geom.Size{W: 250, H: 400}

func usage() {
	fmt.Println("BlockCanvas: palette layout tool")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  blockcanvas version|-v|--version             Show version")
	fmt.Println("  blockcanvas config                            Print the effective configuration")
	fmt.Println("  blockcanvas layout [<order>] [tag...]         Lay out the palette for <order>, filtered by tags")
	fmt.Println("  blockcanvas catalog import <order> [<db>]     Import block definitions into the catalog")
	fmt.Println("  blockcanvas catalog list [<db>] [<category>]  List catalog definitions")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Warning: config:", err)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	cc := crash.Context{OrderFile: cfg.Palette.OrderFile, Catalog: cfg.Catalog.Path}
	defer crash.Recover(&cc)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		cc.Command = args[1]
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		case "config":
			printConfig(cfg)
			return
		case "layout":
			orderFile := cfg.Palette.OrderFile
			var tags []string
			if len(args) > 2 {
				orderFile, tags = args[2], args[3:]
			}
			if orderFile == "" {
				fmt.Println("layout requires <order> (or palette.order_file in the config)")
				usage()
				os.Exit(2)
			}
			cc.OrderFile = orderFile
			if err := runLayout(cfg, orderFile, tags); err != nil {
				l.Error("layout failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "catalog":
			if err := runCatalog(cfg, args[2:]); err != nil {
				l.Error("catalog failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func printConfig(cfg config.AppConfig) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
	for _, key := range []string{"interaction.drag_threshold", "palette.order_file", "catalog.path", "logging.level", "logging.format", "logging.source", "logging.file"} {
		if env, ok := config.EnvOverrideFor(key); ok {
			fmt.Printf("# %s overridden by %s\n", key, env)
		}
	}
}

func runLayout(cfg config.AppConfig, orderFile string, tags []string) error {
	ctx := context.Background()
	order, err := blockorder.Load(orderFile)
	if err != nil {
		return err
	}
	cat, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer cat.Close()

	f := blocks.NewFactory(ctx, cat, nil, nil)
	opts := palette.OptionsFromConfig(cfg)
	opts.Headers = f
	p, err := palette.New(f, order, opts)
	if err != nil {
		return err
	}
	f.Queue().OnMeasured(func(int) { p.Resize() })
	p.SetViewport(defaultViewport)
	p.Filter(tags...)
	// Headless stand-in for the host's frame loop.
	for f.Queue().Pending() > 0 {
		f.Queue().Flush()
	}

	origin := p.Stack().Position()
	for _, c := range p.Stack().Components() {
		if !c.Visible() {
			continue
		}
		size, _ := c.Measurements()
		pos := c.Position()
		label := c.ID()
		switch v := c.(type) {
		case *blocks.Block:
			label = v.Label()
		case *stack.Header:
			label = v.Label
		}
		fmt.Printf("%-6s %-24s x=%-5g y=%-6g w=%-5g h=%g\n", c.Kind(), label, origin.X+pos.X, origin.Y+pos.Y, size.W, size.H)
	}
	fmt.Println()
	for _, off := range p.Stack().CategoryOffsets() {
		fmt.Printf("category %-16s offset=%g\n", off.ID, off.Offset)
	}
	if b, ok := p.ScrollBounds(); ok {
		fmt.Printf("scroll bounds: x=[%g, %g] y=[%g, %g]\n", b.MinX, b.MaxX, b.MinY, b.MaxY)
	}
	if len(tags) > 0 {
		fmt.Printf("filter: %s\n", strings.Join(tags, ", "))
	}
	return nil
}

func runCatalog(cfg config.AppConfig, args []string) error {
	ctx := context.Background()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("catalog import requires <order>")
		}
		order, err := blockorder.Load(args[1])
		if err != nil {
			return err
		}
		db := cfg.Catalog.Path
		if len(args) > 2 {
			db = args[2]
		}
		if db == "" {
			return fmt.Errorf("catalog import requires <db> (or catalog.path in the config)")
		}
		cat, err := catalog.Open(ctx, db)
		if err != nil {
			return err
		}
		defer cat.Close()
		n, err := cat.Import(ctx, order)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d block definitions into %s\n", n, db)
		return nil
	case "list":
		db := cfg.Catalog.Path
		if len(args) > 1 {
			db = args[1]
		}
		var category string
		if len(args) > 2 {
			category = args[2]
		}
		cat, err := catalog.Open(ctx, db)
		if err != nil {
			return err
		}
		defer cat.Close()
		defs, err := cat.List(ctx, category)
		if err != nil {
			return err
		}
		for _, d := range defs {
			fmt.Printf("%-12s %-16s %-24s %s\n", d.Category, d.Opcode, d.Label, strings.Join(d.Tags, ","))
		}
		return nil
	default:
		usage()
		os.Exit(2)
	}
	return nil
}
