package kube

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"checktree/treeview"
)

// Resource identifies the cluster object behind a tree item.
type Resource struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

// Key is the item value of a resource.
func (r Resource) Key() string {
	if r.Namespace == "" {
		return r.Kind + "/" + r.Name
	}
	return r.Kind + "/" + r.Namespace + "/" + r.Name
}

// Options select what LoadForest lists.
type Options struct {
	LabelSelector string
	// Concurrency bounds the namespaces listed in parallel.
	Concurrency int
	Collapsed   bool
}

// LoadForest lists namespaces with their pods and config maps as item
// descriptions: one top-level item per namespace, a "Pods" and a
// "ConfigMaps" group below it. Empty groups are left out.
func LoadForest(ctx context.Context, client kubernetes.Interface, opts Options) ([]treeview.Item[Resource], error) {
	logger := klog.FromContext(ctx).WithName("kube")

	namespaces, err := client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{LabelSelector: opts.LabelSelector})
	if err != nil {
		return nil, errors.Wrap(err, "listing namespaces")
	}
	logger.V(2).Info("listed namespaces", "count", len(namespaces.Items))
	sortByName(namespaces.Items, func(ns corev1.Namespace) string { return ns.Name })

	items := make([]treeview.Item[Resource], len(namespaces.Items))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, ns := range namespaces.Items {
		g.Go(func() error {
			item, err := namespaceItem(ctx, client, ns.Name, opts.Collapsed)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func namespaceItem(ctx context.Context, client kubernetes.Interface, namespace string, collapsed bool) (treeview.Item[Resource], error) {
	res := Resource{Kind: "Namespace", Name: namespace}
	item := treeview.Item[Resource]{
		Text:      namespace,
		Value:     res.Key(),
		Data:      res,
		Checked:   ptr.To(false),
		Collapsed: ptr.To(collapsed),
	}

	pods, err := client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return item, errors.Wrapf(err, "listing pods in %s", namespace)
	}
	sortByName(pods.Items, func(pod corev1.Pod) string { return pod.Name })
	var podItems []treeview.Item[Resource]
	for _, pod := range pods.Items {
		podItems = append(podItems, leafItem(Resource{Kind: "Pod", Namespace: namespace, Name: pod.Name}))
	}

	configMaps, err := client.CoreV1().ConfigMaps(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return item, errors.Wrapf(err, "listing config maps in %s", namespace)
	}
	sortByName(configMaps.Items, func(cm corev1.ConfigMap) string { return cm.Name })
	var cmItems []treeview.Item[Resource]
	for _, cm := range configMaps.Items {
		cmItems = append(cmItems, leafItem(Resource{Kind: "ConfigMap", Namespace: namespace, Name: cm.Name}))
	}

	if group, ok := groupItem(namespace, "Pods", podItems); ok {
		item.Children = append(item.Children, group)
	}
	if group, ok := groupItem(namespace, "ConfigMaps", cmItems); ok {
		item.Children = append(item.Children, group)
	}
	return item, nil
}

func groupItem(namespace, text string, children []treeview.Item[Resource]) (treeview.Item[Resource], bool) {
	if len(children) == 0 {
		return treeview.Item[Resource]{}, false
	}
	return treeview.Item[Resource]{
		Text:     text,
		Value:    fmt.Sprintf("%s/%s", text, namespace),
		Data:     Resource{Kind: text, Namespace: namespace},
		Children: children,
	}, true
}

func leafItem(res Resource) treeview.Item[Resource] {
	return treeview.Item[Resource]{
		Text:    res.Name,
		Value:   res.Key(),
		Data:    res,
		Checked: ptr.To(false),
	}
}

// sortByName orders listed objects; list results carry no stable order.
func sortByName[O any](objs []O, name func(O) string) {
	sort.Slice(objs, func(i, j int) bool { return name(objs[i]) < name(objs[j]) })
}
