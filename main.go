package main

import (
	"context"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"
	"k8s.io/cli-runtime/pkg/printers"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
	"k8s.io/kubectl/pkg/util/templates"

	"checktree/config"
	"checktree/kube"
	"checktree/treeview"
	"checktree/ui"
)

var (
	longDesc = templates.LongDesc(`
		Browse a tree of items as checkboxes.

		Items come from a YAML file of item descriptions or from the current
		cluster (namespaces, their pods and config maps). Check items with
		space, toggle all with 'a', filter with '/'. The selection is printed
		when the browser exits.`)

	examples = templates.Examples(`
		# Browse the current cluster
		checktree

		# Browse a file and print the checked values without a terminal UI
		checktree --source file --file items.yaml --print

		# Print checked leaves with their ancestors as a table
		checktree --encoder downline --print -o table`)
)

type options struct {
	configFile string
	print      bool
	cfg        config.Config
	kubeFlags  *genericclioptions.ConfigFlags
	streams    genericiooptions.IOStreams
}

func newOptions(streams genericiooptions.IOStreams) *options {
	return &options{
		kubeFlags: genericclioptions.NewConfigFlags(true),
		streams:   streams,
	}
}

func (o *options) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "checktree",
		Short:        "Browse a checkbox tree",
		Long:         longDesc,
		Example:      examples,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.complete(cmd); err != nil {
				return err
			}
			return o.run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.configFile, "config", "", "path to a YAML config file")
	flags.BoolVar(&o.print, "print", false, "print the tree and selection instead of starting the browser")
	flags.StringVar(&o.cfg.Source, "source", "", "item source: file or kube")
	flags.StringVar(&o.cfg.File, "file", "", "YAML file of item descriptions")
	flags.StringVar(&o.cfg.Encoder, "encoder", "", "selection payload: values, downline or ordered-downline")
	flags.StringVar(&o.cfg.Filter, "filter", "", "initial filter text")
	flags.StringVarP(&o.cfg.Output, "output", "o", "", "print format: json or table")
	flags.StringVarP(&o.cfg.Kube.LabelSelector, "selector", "l", "", "namespace label selector")
	o.kubeFlags.AddFlags(flags)

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)
	flags.SetNormalizeFunc(wordSepNormalizeFunc)
	return cmd
}

// wordSepNormalizeFunc accepts klog's underscored flag names with dashes.
func wordSepNormalizeFunc(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// complete layers flags over the config file over defaults.
func (o *options) complete(cmd *cobra.Command) error {
	fileCfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	flagCfg := o.cfg
	o.cfg = fileCfg
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("source", &o.cfg.Source, flagCfg.Source)
	set("file", &o.cfg.File, flagCfg.File)
	set("encoder", &o.cfg.Encoder, flagCfg.Encoder)
	set("filter", &o.cfg.Filter, flagCfg.Filter)
	set("output", &o.cfg.Output, flagCfg.Output)
	set("selector", &o.cfg.Kube.LabelSelector, flagCfg.Kube.LabelSelector)
	if cmd.Flags().Changed("file") && !cmd.Flags().Changed("source") {
		o.cfg.Source = config.SourceFile
	}
	return o.cfg.Validate()
}

func (o *options) loadItems(ctx context.Context) ([]treeview.Item[kube.Resource], error) {
	if o.cfg.Source == config.SourceFile {
		data, err := os.ReadFile(o.cfg.File)
		if err != nil {
			return nil, errors.Wrap(err, "reading items")
		}
		return treeview.DecodeItems[kube.Resource](data)
	}

	restConfig, err := o.kubeFlags.ToRESTConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading kubeconfig")
	}
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating client")
	}
	return kube.LoadForest(ctx, client, kube.Options{
		LabelSelector: o.cfg.Kube.LabelSelector,
		Concurrency:   o.cfg.Kube.Concurrency,
		Collapsed:     o.cfg.Kube.Collapsed,
	})
}

func (o *options) run(ctx context.Context) error {
	items, err := o.loadItems(ctx)
	if err != nil {
		return err
	}
	forest, err := treeview.NewForest(items, treeview.WithCorrectChecked())
	if err != nil {
		return err
	}

	switch o.cfg.Encoder {
	case config.EncoderDownline:
		return browse(o, forest, treeview.Encoder[kube.Resource, *treeview.Downline[kube.Resource]](treeview.DownlineEncoder[kube.Resource]{}))
	case config.EncoderOrderedDownline:
		return browse(o, forest, treeview.Encoder[kube.Resource, *treeview.Downline[kube.Resource]](treeview.NewOrderedDownlineEncoder[kube.Resource]()))
	default:
		return browse(o, forest, treeview.Encoder[kube.Resource, any](treeview.ValuesEncoder[kube.Resource]{}))
	}
}

func browse[P any](o *options, forest []*treeview.Node[kube.Resource], encoder treeview.Encoder[kube.Resource, P]) error {
	if o.print {
		queue := &treeview.Queue{}
		ctrl := treeview.NewController(forest, encoder,
			treeview.WithScheduler(queue), treeview.WithAllText(o.cfg.AllText))
		ctrl.SetFilterText(o.cfg.Filter)
		queue.Flush()
		fmt.Fprint(o.streams.Out, treeview.RenderAsText(ctrl.AllItem().Label(), ctrl.FilteredItems()))
		return printPayload(o.streams.Out, o.cfg.Output, ctrl.Payload())
	}

	app := tview.NewApplication()
	scheduler := ui.NewScheduler(app)
	defer scheduler.Close()
	ctrl := treeview.NewController(forest, encoder,
		treeview.WithScheduler(scheduler), treeview.WithAllText(o.cfg.AllText))
	view := ui.New(app, ctrl, treeview.DefaultLabeler[kube.Resource]{})
	view.ApplyFilter(o.cfg.Filter)
	if err := app.SetRoot(view.Root(), true).Run(); err != nil {
		return err
	}
	// Notifications queued before the app stopped may never have run.
	return printPayload(o.streams.Out, o.cfg.Output, ctrl.Payload())
}

type row struct {
	Value any      `json:"value"`
	Path  []string `json:"path,omitempty"`
}

func rows[P any](payload []P) []row {
	out := make([]row, 0, len(payload))
	for _, p := range payload {
		switch v := any(p).(type) {
		case *treeview.Downline[kube.Resource]:
			var path []string
			for _, n := range v.Path() {
				path = append(path, n.Text)
			}
			out = append(out, row{Value: v.Node.Value, Path: path})
		default:
			out = append(out, row{Value: v})
		}
	}
	return out
}

func printPayload[P any](w io.Writer, format string, payload []P) error {
	if format == config.OutputTable {
		tw := printers.GetNewTabWriter(w)
		fmt.Fprintln(tw, "VALUE\tPATH")
		for _, r := range rows(payload) {
			fmt.Fprintf(tw, "%v\t%s\n", r.Value, strings.Join(r.Path, " / "))
		}
		return tw.Flush()
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows(payload))
}

func main() {
	streams := genericiooptions.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
	if err := newOptions(streams).command().Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
