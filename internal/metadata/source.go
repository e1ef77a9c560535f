package metadata

import (
	"github.com/beevik/etree"

	"github.com/dusk-indust/mdagg/internal/entity"
)

// SAML metadata namespaces.
const (
	NamespaceMD    = "urn:oasis:names:tc:SAML:2.0:metadata"
	NamespaceMDUI  = "urn:oasis:names:tc:SAML:metadata:ui"
	NamespaceMDRPI = "urn:oasis:names:tc:SAML:metadata:rpi"
)

// Compile-time interface check.
var _ entity.Source = (*EntitySource)(nil)

// EntitySource implements entity.Source over an md:EntityDescriptor element.
// Names it returns are the underlying elements, so SetText rewrites the
// document in place.
type EntitySource struct {
	el *etree.Element
}

// NewEntitySource wraps an md:EntityDescriptor element.
func NewEntitySource(el *etree.Element) *EntitySource {
	return &EntitySource{el: el}
}

// Element returns the wrapped md:EntityDescriptor.
func (s *EntitySource) Element() *etree.Element {
	return s.el
}

// Identifier returns the entityID attribute.
func (s *EntitySource) Identifier() string {
	return s.el.SelectAttrValue("entityID", "")
}

// Role reports IdentityProvider when the entity has an md:IDPSSODescriptor.
func (s *EntitySource) Role() entity.Role {
	if len(children(s.el, NamespaceMD, "IDPSSODescriptor")) > 0 {
		return entity.RoleIdentityProvider
	}
	return entity.RoleOther
}

// PreferredNames returns the mdui:DisplayName elements of the identity
// provider role descriptors.
func (s *EntitySource) PreferredNames() []entity.Name {
	var names []entity.Name
	for _, idp := range children(s.el, NamespaceMD, "IDPSSODescriptor") {
		for _, ext := range children(idp, NamespaceMD, "Extensions") {
			for _, ui := range children(ext, NamespaceMDUI, "UIInfo") {
				for _, dn := range children(ui, NamespaceMDUI, "DisplayName") {
					names = append(names, dn)
				}
			}
		}
	}
	return names
}

// LegacyNames returns the md:OrganizationDisplayName elements.
func (s *EntitySource) LegacyNames() []entity.Name {
	var names []entity.Name
	for _, org := range children(s.el, NamespaceMD, "Organization") {
		for _, dn := range children(org, NamespaceMD, "OrganizationDisplayName") {
			names = append(names, dn)
		}
	}
	return names
}

// RegistrationAuthority returns the registrationAuthority attribute of the
// entity's mdrpi:RegistrationInfo, if any.
func (s *EntitySource) RegistrationAuthority() (string, bool) {
	for _, ext := range children(s.el, NamespaceMD, "Extensions") {
		for _, info := range children(ext, NamespaceMDRPI, "RegistrationInfo") {
			if attr := info.SelectAttr("registrationAuthority"); attr != nil {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// children returns the direct child elements of el with the given namespace
// and local name, in document order.
func children(el *etree.Element, space, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag && c.NamespaceURI() == space {
			out = append(out, c)
		}
	}
	return out
}

func isElement(el *etree.Element, space, tag string) bool {
	return el.Tag == tag && el.NamespaceURI() == space
}
