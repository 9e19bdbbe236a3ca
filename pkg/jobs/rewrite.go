/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package jobs

import (
	"context"
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// Identity is a user assigned managed identity attached to relocated jobs.
type Identity struct {
	// Name of the identity in the target resource group.
	Name string `json:"name" yaml:"name"`

	// ResourceID overrides the id derived from Name.
	ResourceID string `json:"resourceId,omitempty" yaml:"resourceId,omitempty"`

	ClientID    string `json:"clientId" yaml:"clientId"`
	PrincipalID string `json:"principalId" yaml:"principalId"`
}

// Rewrite retargets a job document.
type Rewrite struct {
	// ResourceGroup is the target resource group. Required.
	ResourceGroup string

	// Environment is the target managed environment name. Required.
	Environment string

	// Location used in the event stream endpoint, such as "centralus".
	// Empty uses the job's own location.
	Location string

	// Identity replaces the job's user assigned identities when set.
	Identity *Identity

	// Image replaces the image of every container that has one when set.
	Image string

	// Overlay is merged over the rewritten document, overriding existing values.
	Overlay map[string]any
}

// Validate checks the required fields.
func (r *Rewrite) Validate() error {
	if r.ResourceGroup == "" || r.Environment == "" {
		return azerrors.New(azerrors.ErrCodeInvalidRequest, "target resource group and environment are required")
	}
	if r.Identity != nil && r.Identity.Name == "" && r.Identity.ResourceID == "" {
		return azerrors.New(azerrors.ErrCodeInvalidRequest, "identity requires a name or resource id")
	}
	return nil
}

// Apply rewrites doc in place for the job called name.
func (r *Rewrite) Apply(doc map[string]any, name string) error {
	id, _ := doc["id"].(string)
	sub := subscriptionOf(id)
	if sub == "" {
		return azerrors.New(azerrors.ErrCodeMalformedOutput, fmt.Sprintf("job %s has no subscription in its id %q", name, id))
	}

	props, ok := doc["properties"].(map[string]any)
	if !ok {
		return azerrors.New(azerrors.ErrCodeMalformedOutput, fmt.Sprintf("job %s has no properties", name))
	}

	location := r.Location
	if location == "" {
		loc, _ := doc["location"].(string)
		location = strings.ToLower(strings.ReplaceAll(loc, " ", ""))
	}

	rgPath := fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", sub, r.ResourceGroup)
	doc["resourceGroup"] = r.ResourceGroup
	doc["id"] = rgPath + "/providers/Microsoft.App/jobs/" + name
	props["environmentId"] = rgPath + "/providers/Microsoft.App/managedEnvironments/" + r.Environment
	props["eventStreamEndpoint"] = fmt.Sprintf("https://%s.azurecontainerapps.dev/subscriptions/%s/resourceGroups/%s/containerApps/%s/eventstream",
		location, sub, r.ResourceGroup, name)

	if r.Identity != nil {
		identityID := r.Identity.ResourceID
		if identityID == "" {
			identityID = fmt.Sprintf("/subscriptions/%s/resourcegroups/%s/providers/Microsoft.ManagedIdentity/userAssignedIdentities/%s",
				sub, r.ResourceGroup, r.Identity.Name)
		}
		identity, _ := doc["identity"].(map[string]any)
		if identity == nil {
			identity = map[string]any{"type": "UserAssigned"}
			doc["identity"] = identity
		}
		identity["userAssignedIdentities"] = map[string]any{
			identityID: map[string]any{
				"clientId":    r.Identity.ClientID,
				"principalId": r.Identity.PrincipalID,
			},
		}
	}

	if r.Image != "" {
		template, _ := props["template"].(map[string]any)
		containers, _ := template["containers"].([]any)
		for _, c := range containers {
			container, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if img, _ := container["image"].(string); img != "" {
				container["image"] = r.Image
			}
		}
	}

	if len(r.Overlay) > 0 {
		if err := mergo.Merge(&doc, r.Overlay, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge overlay into job %s: %w", name, err)
		}
	}
	return nil
}

// subscriptionOf returns the subscription id of an ARM resource id.
func subscriptionOf(id string) string {
	parts := strings.Split(id, "/")
	if len(parts) > 2 && strings.EqualFold(parts[1], "subscriptions") {
		return parts[2]
	}
	return ""
}

// overlayFile is the on-disk form of a rewrite overlay.
type overlayFile struct {
	Identity *Identity      `yaml:"identity"`
	Image    string         `yaml:"image"`
	Merge    map[string]any `yaml:"merge"`
}

// LoadOverlay reads an overlay document from location (a path or afs URL)
// and applies it to r. Values already set on r take precedence.
//
//	identity:
//	  name: jobs-uami
//	  clientId: 00000000-0000-0000-0000-000000000000
//	  principalId: 00000000-0000-0000-0000-000000000000
//	image: registry.azurecr.io/job:1.2.3
//	merge:
//	  properties:
//	    configuration:
//	      replicaTimeout: 1800
func (r *Rewrite) LoadOverlay(ctx context.Context, location string) error {
	data, err := afs.New().DownloadWithURL(ctx, url.Normalize(location, file.Scheme))
	if err != nil {
		return azerrors.Wrap(azerrors.ErrCodeConfigInvalid, "failed to read overlay "+location, err)
	}

	var o overlayFile
	if err := yaml.Unmarshal(data, &o); err != nil {
		return azerrors.Wrap(azerrors.ErrCodeConfigInvalid, "failed to parse overlay "+location, err)
	}

	if r.Identity == nil {
		r.Identity = o.Identity
	}
	if r.Image == "" {
		r.Image = o.Image
	}
	if len(o.Merge) > 0 {
		if r.Overlay == nil {
			r.Overlay = map[string]any{}
		}
		if err := mergo.Merge(&r.Overlay, o.Merge); err != nil {
			return fmt.Errorf("failed to merge overlay %s: %w", location, err)
		}
	}
	return nil
}
