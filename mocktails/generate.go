package mocktails

// GenerateProfile builds a single profile by recursively partitioning root
// according to config and attaching a leaf model of modelType at every
// resulting leaf partition.
func GenerateProfile(id uint32, root *Partition, config HierarchyConfiguration, modelType ModelType) (*Profile, error) {
	h := NewHierarchy(root)
	if err := populateHierarchy(h, h.RootID(), config, 1); err != nil {
		return nil, err
	}
	return NewProfileFromHierarchy(id, modelType, h)
}

// GenerateProfiles chunks requests into successive phases of rootSize
// requests each (rootSize == 0 means a single phase covering the whole
// stream) and builds one profile per phase, numbered from 0. A final,
// possibly-short phase is flushed even if it never reaches rootSize.
func GenerateProfiles(requests []Request, config HierarchyConfiguration, modelType ModelType, rootSize uint64) ([]*Profile, error) {
	var profiles []*Profile

	root := NewPartition(DefaultConfiguration())
	var profileID uint32

	flush := func() error {
		if len(root.Requests) == 0 {
			return nil
		}

		p, err := GenerateProfile(profileID, root, config, modelType)
		if err != nil {
			return err
		}

		profiles = append(profiles, p)
		profileID++
		root = NewPartition(DefaultConfiguration())

		return nil
	}

	for _, req := range requests {
		if len(root.Requests) == 0 {
			root.StartTime = req.Timestamp
		}

		root.Requests = append(root.Requests, req)
		root.Duration = req.Timestamp - root.StartTime

		if rootSize > 0 && uint64(len(root.Requests))%rootSize == 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return profiles, nil
}
