package objloader

import (
	"bufio"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

func loadMtl(dir fs.FS, mtlFile string) ([]Material, error) {
	f, err := dir.Open(mtlFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var materials []Material

	var (
		currentMtl = Material{Name: "unnamed_mtl"}
		lineNumber int
	)

	s := bufio.NewScanner(f)
	for s.Scan() {
		lineNumber++

		split := strings.Fields(s.Text())
		if len(split) == 0 {
			continue
		}
		key := split[0]
		if strings.HasPrefix(key, "#") {
			continue
		}
		if len(split) < 2 {
			return nil, fmt.Errorf("invalid %s at line %d", key, lineNumber)
		}

		switch key {
		case "newmtl":
			name := split[1]
			if name != currentMtl.Name {
				zero := Material{Name: "unnamed_mtl"}
				if currentMtl != zero {
					materials = append(materials, currentMtl)
				}

				currentMtl = Material{Name: name}
			}

		case "Ka", "Kd", "Ks":
			if len(split) < 4 {
				return nil, fmt.Errorf("invalid %s at line %d", key, lineNumber)
			}

			x, y, z, err := parse3Float(split[1], split[2], split[3])
			if err != nil {
				return nil, fmt.Errorf("invalid %s at line %d", key, lineNumber)
			}

			switch key {
			case "Ka": // ambient
				currentMtl.Ambient = [3]float32{x, y, z}
			case "Kd": // diffuse
				currentMtl.Diffuse = [3]float32{x, y, z}
			case "Ks": // specular
				currentMtl.Specular = [3]float32{x, y, z}
			}

		case "Ns", "Ni", "d":
			x, err := parseFloat(split[1])
			if err != nil {
				return nil, fmt.Errorf("invalid %s at line %d", key, lineNumber)
			}

			switch key {
			case "Ns": // shininess
				currentMtl.Shininess = x
			case "Ni": // optical_density
				currentMtl.OpticalDensity = x
			case "d": // dissolve
				currentMtl.Dissolve = x
			}

		case "map_Ka":
			currentMtl.AmbientTexture = split[len(split)-1]
		case "map_Kd":
			currentMtl.DiffuseTexture = split[len(split)-1]
		case "map_Ks":
			currentMtl.SpecularTexture = split[len(split)-1]
		case "map_Bump", "map_bump", "bump":
			currentMtl.NormalTexture = split[len(split)-1]
		case "map_Ns", "map_ns", "map_NS":
			currentMtl.ShininessTexture = split[len(split)-1]
		case "map_d":
			currentMtl.DissolveTexture = split[len(split)-1]

		case "illum": // illumination_model
			x, err := strconv.ParseUint(split[1], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid illum at line %d", lineNumber)
			}

			currentMtl.IlluminationModel = uint8(x)

		default: // unknown
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	materials = append(materials, currentMtl)

	return materials, nil
}
