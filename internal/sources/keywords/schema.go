package keywords

// File is the YAML layout of a keyword table file.
//
//	moods:
//	  happy: ["신나는 팝", "upbeat"]
//	tags:
//	  운동: ["workout"]
type File struct {
	Moods map[string][]string `yaml:"moods"`
	Tags  map[string][]string `yaml:"tags"`
}
