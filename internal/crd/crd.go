// Package crd installs the custom resource definitions shipped with the controller.
package crd

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes"
	"github.com/go-logr/logr"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"
)

//go:generate cp ../../config/crd/bases/ansarhun.github.com_resticvolumepopulators.yaml embed/
//go:embed embed/*.yaml
var content embed.FS

var ErrEmptyManifest = errors.New("manifest does not contain a CustomResourceDefinition")

// Load decodes every embedded manifest.
func Load() ([]*apiextensionsv1.CustomResourceDefinition, error) {
	files, err := fs.Glob(content, "embed/*.yaml")
	if err != nil {
		return nil, err
	}

	crds := make([]*apiextensionsv1.CustomResourceDefinition, 0, len(files))
	for _, file := range files {
		data, err := content.ReadFile(file)
		if err != nil {
			return nil, err
		}
		crd, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(file), err)
		}
		crds = append(crds, crd)
	}
	return crds, nil
}

// Decode parses a single CustomResourceDefinition manifest.
func Decode(data []byte) (*apiextensionsv1.CustomResourceDefinition, error) {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), []byte("---"))
	crd := &apiextensionsv1.CustomResourceDefinition{}
	if err := yaml.UnmarshalStrict(data, crd); err != nil {
		return nil, fmt.Errorf("could not decode CustomResourceDefinition: %w", err)
	}
	if crd.Kind != "CustomResourceDefinition" || crd.Name == "" {
		return nil, ErrEmptyManifest
	}
	return crd, nil
}

// Bootstrap creates the embedded definitions or brings existing ones up to date.
func Bootstrap(ctx context.Context, c client.Client, logger logr.Logger) error {
	crds, err := Load()
	if err != nil {
		return err
	}

	for _, desired := range crds {
		crd := &apiextensionsv1.CustomResourceDefinition{}
		crd.Name = desired.Name
		result, err := kubernetes.CreateOrUpdate(ctx, c, crd, ensureSpec(desired))
		if err != nil {
			return fmt.Errorf("could not apply CustomResourceDefinition %s: %w", desired.Name, err)
		}
		logger.Info("CustomResourceDefinition bootstrapped", "name", desired.Name, "result", result)
	}
	return nil
}

func ensureSpec(desired *apiextensionsv1.CustomResourceDefinition) func(*apiextensionsv1.CustomResourceDefinition) error {
	return func(crd *apiextensionsv1.CustomResourceDefinition) error {
		desired.Spec.DeepCopyInto(&crd.Spec)
		if err := kubernetes.EnsureAnnotations[*apiextensionsv1.CustomResourceDefinition](desired.Annotations)(crd); err != nil {
			return err
		}
		return kubernetes.EnsureLabels[*apiextensionsv1.CustomResourceDefinition](desired.Labels)(crd)
	}
}
