// showroomtool is a CLI utility for inspecting showroom assets.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/Faultbox/vaporwear/internal/assets"
	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/showroom"
)

const loadTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = withModel(args, 1, func(m *assets.Model) error { return cmdInfo(os.Stdout, m) })
	case "inspect":
		err = withModel(args, 1, func(m *assets.Model) error {
			if err := cmdInfo(os.Stdout, m); err != nil {
				return err
			}
			fmt.Println()
			return cmdList(os.Stdout, m, "*")
		})
	case "list", "ls":
		pattern := "*"
		if len(args) > 1 {
			pattern = args[1]
		}
		err = withModel(args, 1, func(m *assets.Model) error { return cmdList(os.Stdout, m, pattern) })
	case "check":
		err = withModel(args, 1, func(m *assets.Model) error { return cmdCheck(os.Stdout, m, config.Default()) })
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `showroomtool - watch showroom asset utility

Usage:
  showroomtool <command> [options]

Commands:
  info <url>             Show asset summary
  inspect <url>          Show asset summary and every node
  list <url> [pattern]   List nodes with their kind (optional glob pattern)
  check <url>            Verify a watch asset has every name the showroom needs

Examples:
  showroomtool info assets/watch.glb
  showroomtool list assets/watch.glb "camera_*"
  showroomtool check https://cdn.example.com/watch.glb`)
}

// withModel loads the asset named by args[0] and passes it to fn.
func withModel(args []string, want int, fn func(*assets.Model) error) error {
	if len(args) < want {
		return fmt.Errorf("missing asset URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	m := assets.NewManager()
	defer m.Close()
	model, err := m.LoadModel(ctx, args[0])
	if err != nil {
		return err
	}
	return fn(model)
}

func cmdInfo(w io.Writer, m *assets.Model) error {
	fmt.Fprintf(w, "Asset: %s\n", m.URL)
	fmt.Fprintf(w, "Nodes: %d\n", len(m.Nodes))
	fmt.Fprintf(w, "Meshes: %d\n", len(m.Meshes))
	fmt.Fprintf(w, "Materials: %d\n", len(m.Materials))
	for _, mat := range m.Materials {
		fmt.Fprintf(w, "  %s\n", mat.Name)
	}
	fmt.Fprintf(w, "Skeletons: %d\n", len(m.Skeletons))
	for _, sk := range m.Skeletons {
		fmt.Fprintf(w, "  %-20s %d joints\n", sk.Name, len(sk.Joints))
	}
	fmt.Fprintf(w, "Animations: %d\n", len(m.Animations))

	groups := append([]*scene.AnimationGroup(nil), m.Animations...)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	for _, g := range groups {
		fmt.Fprintf(w, "  %-20s frames %.0f-%.0f, %d tracks\n", g.Name, g.FirstFrame(), g.LastFrame(), len(g.Tracks))
	}
	return nil
}

func cmdList(w io.Writer, m *assets.Model, pattern string) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	kinds := make(map[*scene.Node]string, len(m.Meshes))
	for _, mesh := range m.Meshes {
		kind := "mesh"
		if mesh.Material != nil {
			kind = "mesh (" + mesh.Material.Name + ")"
		}
		kinds[mesh.Node] = kind
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	matched := 0
	for _, n := range m.Nodes {
		if ok, _ := filepath.Match(pattern, n.Name); !ok {
			continue
		}
		kind, ok := kinds[n]
		if !ok {
			kind = "node"
		}
		parent := ""
		if p := n.Parent(); p != nil {
			parent = p.Name
		}
		p := n.AbsolutePosition()
		fmt.Fprintf(tw, "%s\t%s\t%s\t(%.3f, %.3f, %.3f)\n", n.Name, kind, parent, p.X, p.Y, p.Z)
		matched++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d of %d nodes\n", matched, len(m.Nodes))
	return nil
}

// cmdCheck builds a showroom around the asset, which resolves every node,
// mesh, skeleton and animation it binds to.
func cmdCheck(w io.Writer, m *assets.Model, cfg *config.Config) error {
	s := scene.New(cfg.Graphics.Width, cfg.Graphics.Height)
	m.AddTo(s)
	if _, err := showroom.New(s, cfg); err != nil {
		return fmt.Errorf("%s is not a showroom watch: %w", m.URL, err)
	}
	fmt.Fprintf(w, "%s: OK\n", m.URL)
	return nil
}
