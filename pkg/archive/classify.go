package archive

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/oneconcern/projar/pkg/model"
)

const (
	// DefaultMarkerExtension is the extension of files only found in visual projects
	DefaultMarkerExtension = ".blocks"

	// DefaultManifest is the name of the project manifest, at the root of a package
	DefaultManifest = "package.json"

	// DefaultNamespace is the manifest section describing the project to the tool
	DefaultNamespace = "tool"

	// DefaultVisualTag is the project type declared by visual projects in their manifest
	DefaultVisualTag = "blocks"
)

// ClassifyOption tunes the evidence looked for by Classify
type ClassifyOption func(*classifyOptions)

type classifyOptions struct {
	extension string
	manifest  string
	namespace string
	visualTag string
}

// MarkerExtension sets the file extension marking visual projects
func MarkerExtension(ext string) ClassifyOption {
	return func(o *classifyOptions) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.extension = ext
	}
}

// Manifest sets the name of the root manifest file
func Manifest(name string) ClassifyOption {
	return func(o *classifyOptions) {
		o.manifest = name
	}
}

// Namespace sets the manifest section holding the project type
func Namespace(ns string) ClassifyOption {
	return func(o *classifyOptions) {
		o.namespace = ns
	}
}

// VisualTag sets the manifest project type of visual projects
func VisualTag(tag string) ClassifyOption {
	return func(o *classifyOptions) {
		o.visualTag = tag
	}
}

// Classify infers the type of project held by a set of files.
//
// A file with the marker extension makes a visual project. Otherwise, a root
// manifest declaring the visual tag does. Anything else, including a manifest
// that doesn't parse, is a code project.
func Classify(files map[string][]byte, opts ...ClassifyOption) model.ProjectType {
	o := classifyOptions{
		extension: DefaultMarkerExtension,
		manifest:  DefaultManifest,
		namespace: DefaultNamespace,
		visualTag: DefaultVisualTag,
	}
	for _, apply := range opts {
		apply(&o)
	}

	if o.extension != "" {
		for p := range files {
			if strings.HasSuffix(p, o.extension) {
				return model.ProjectVisual
			}
		}
	}

	manifest, ok := files[o.manifest]
	if !ok {
		return model.ProjectCode
	}
	if !jsoniter.Valid(manifest) {
		return model.ProjectCode
	}
	projectType := jsoniter.Get(manifest, o.namespace, "type")
	if projectType.LastError() != nil || projectType.ValueType() != jsoniter.StringValue {
		return model.ProjectCode
	}
	if projectType.ToString() == o.visualTag {
		return model.ProjectVisual
	}
	return model.ProjectCode
}
