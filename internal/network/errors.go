package network

import domainerrors "mapmatch/internal/domain/errors"

func newUnknownSection(sectionID string) error {
	return domainerrors.New(domainerrors.KindUnknownSection, "unknown section: "+sectionID)
}

func newEmptySection(sectionID string) error {
	return domainerrors.New(domainerrors.KindEmptySection, "section has no shape points: "+sectionID)
}
