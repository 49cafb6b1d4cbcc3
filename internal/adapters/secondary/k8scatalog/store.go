// Package k8scatalog stores catalog artifacts as ConfigMaps.
package k8scatalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/onap/aai-model-loader-sub000/internal/config"
	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	ports "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

var configMapGVR = schema.GroupVersionResource{
	Group:    "",
	Version:  "v1",
	Resource: "configmaps",
}

const (
	namePrefix = "catalog-"

	payloadKey     = "payload"
	contentTypeKey = "content-type"

	addressAnnotation = "model-loader.onap.org/address"
	managedByLabel    = "app.kubernetes.io/managed-by"
	managedByValue    = "aai-model-loader"
)

type store struct {
	client    dynamic.Interface
	namespace string
}

// NewStore creates a RemoteStore writing ConfigMaps into the configured
// namespace.
func NewStore(cfg *config.CatalogConfig) (ports.RemoteStore, error) {
	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		restCfg, err = clientcmd.BuildConfigFromFlags("", filepath.Join(home, ".kube", "config"))
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return NewStoreWithClient(client, cfg.Namespace), nil
}

func NewStoreWithClient(client dynamic.Interface, namespace string) ports.RemoteStore {
	if namespace == "" {
		namespace = "default"
	}
	return &store{client: client, namespace: namespace}
}

// ObjectName maps an address to a ConfigMap name. Addresses are URLs and
// not valid object names, so they are hashed.
func ObjectName(address string) string {
	return namePrefix + strconv.FormatUint(xxhash.Sum64String(address), 16)
}

func (s *store) Read(ctx context.Context, address string) (*ports.Resource, error) {
	obj, err := s.client.Resource(configMapGVR).Namespace(s.namespace).Get(ctx, ObjectName(address), metav1.GetOptions{})
	if err != nil {
		return nil, translate(err, address)
	}

	payload, _, _ := unstructured.NestedString(obj.Object, "data", payloadKey)
	return &ports.Resource{
		Address:          address,
		Payload:          []byte(payload),
		ConcurrencyToken: obj.GetResourceVersion(),
	}, nil
}

func (s *store) Create(ctx context.Context, address string, payload []byte, contentType ports.ContentType) error {
	obj := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "v1",
			"kind":       "ConfigMap",
			"metadata": map[string]interface{}{
				"name":      ObjectName(address),
				"namespace": s.namespace,
				"labels": map[string]interface{}{
					managedByLabel: managedByValue,
				},
				"annotations": map[string]interface{}{
					addressAnnotation: address,
				},
			},
			"data": map[string]interface{}{
				payloadKey:     string(payload),
				contentTypeKey: string(contentType),
			},
		},
	}

	_, err := s.client.Resource(configMapGVR).Namespace(s.namespace).Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return translate(err, address)
	}

	log.WithFields(log.Fields{
		"address":   address,
		"configmap": obj.GetName(),
		"namespace": s.namespace,
	}).Debug("catalog configmap created")
	return nil
}

func (s *store) Delete(ctx context.Context, address, concurrencyToken string) error {
	opts := metav1.DeleteOptions{}
	if concurrencyToken != "" {
		opts.Preconditions = &metav1.Preconditions{ResourceVersion: &concurrencyToken}
	}

	err := s.client.Resource(configMapGVR).Namespace(s.namespace).Delete(ctx, ObjectName(address), opts)
	if err != nil {
		return translate(err, address)
	}
	return nil
}

func translate(err error, address string) error {
	switch {
	case apierrors.IsNotFound(err):
		return domain.ErrResourceNotFound
	case apierrors.IsAlreadyExists(err), apierrors.IsConflict(err):
		return fmt.Errorf("%s: %w: %v", address, domain.ErrResourceConflict, err)
	default:
		return fmt.Errorf("%s: %w", address, err)
	}
}
