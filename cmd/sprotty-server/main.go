// Command sprotty-server serves diagram sessions over WebSocket and
// renders SVG exports of the built-in demo graph.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/measure"
	"github.com/tortmayr/sprotty-1/server"
	"github.com/tortmayr/sprotty-1/svg"
)

var rootCmd = &cobra.Command{
	Use:   "sprotty-server",
	Short: "Diagram model server with undo/redo, animation and SVG export",
	Long: `sprotty-server hosts diagram sessions over WebSocket: clients send
actions, the server runs them through the command stack and pushes the
updated model back. Every session can be exported as SVG over HTTP.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve diagram sessions over WebSocket",
	RunE:  runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the demo graph to an SVG file without starting a server",
	RunE:  runExport,
}

var (
	configPath string
	verbose    bool
	outPath    string
	demoNodes  int
)

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML config file")
	serveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	serveCmd.Flags().IntVar(&demoNodes, "nodes", 6, "Number of nodes in the demo graph")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "diagram.svg", "Output file, compressed when it ends in .svgz")
	exportCmd.Flags().IntVar(&demoNodes, "nodes", 6, "Number of nodes in the demo graph")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	sprotty.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	meas, err := measure.NewShaped(nil)
	if err != nil {
		return fmt.Errorf("loading measuring font: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sessions share the measurer, so cache shaped label sizes.
	srv := server.New(cfg,
		server.WithModel(func() *sprotty.Element { return demoGraph(demoNodes) }),
		server.WithMeasurer(measure.NewCached(meas, 0)),
	)
	return srv.ListenAndServe(ctx)
}

func runExport(cmd *cobra.Command, args []string) error {
	root, err := sprotty.NewRoot(demoGraph(demoNodes))
	if err != nil {
		return fmt.Errorf("building demo graph: %w", err)
	}

	meas, err := measure.NewShaped(nil)
	if err != nil {
		return fmt.Errorf("loading measuring font: %w", err)
	}
	action, err := measure.ComputeBounds(root, meas)
	if err != nil {
		return err
	}
	if action != nil {
		index := root.Index()
		for _, b := range action.Bounds {
			if el := index.ByID(b.ElementID); el != nil {
				el.Size = b.NewSize
			}
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	renderer := svg.NewRenderer()
	if strings.HasSuffix(outPath, ".svgz") {
		err = renderer.RenderCompressed(f, root)
	} else {
		err = renderer.Render(f, root)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outPath)
		return fmt.Errorf("rendering %s: %w", outPath, err)
	}

	fmt.Printf("Exported %s\n", outPath)
	return nil
}

// demoGraph builds a ring of labeled circle nodes with an edge between
// each pair of neighbors. It is the model new sessions start from and
// the subject of the export command.
func demoGraph(n int) *sprotty.Element {
	if n < 2 {
		n = 2
	}
	const (
		ringRadius = 160.0
		nodeSize   = 60.0
		center     = ringRadius + nodeSize
	)
	graph := sprotty.NewGraph("demo")
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		node := sprotty.NewNode(fmt.Sprintf("node%d", i),
			center+ringRadius*math.Cos(angle)-nodeSize/2,
			center+ringRadius*math.Sin(angle)-nodeSize/2)
		node.Type = "node:circle"
		node.Size = sprotty.Size{Width: nodeSize, Height: nodeSize}
		label := sprotty.NewLabel(fmt.Sprintf("label%d", i), fmt.Sprintf("Node %d", i))
		label.Position = sprotty.Pt(8, nodeSize+6)
		node.Children = append(node.Children, label)
		graph.Children = append(graph.Children, node)
	}
	for i := 0; i < n; i++ {
		graph.Children = append(graph.Children, sprotty.NewEdge(
			fmt.Sprintf("edge%d", i),
			fmt.Sprintf("node%d", i),
			fmt.Sprintf("node%d", (i+1)%n)))
	}
	return graph
}
