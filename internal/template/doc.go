// Package template locates the directory tree new projects are cloned from
// and reads its optional manifest. The default template is embedded in the
// binary; a template directory on disk can replace it through configuration.
package template
