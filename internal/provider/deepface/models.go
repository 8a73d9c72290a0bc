package deepface

// RepresentRequest for POST /represent
type RepresentRequest struct {
	Img      string `json:"img"`      // base64 encoded image
	Model    string `json:"model"`    // "Facenet", "Facenet512", etc
	Detector string `json:"detector"` // "retinaface", "mtcnn", etc
}

// RepresentResponse from POST /represent
type RepresentResponse struct {
	Results []RepresentResult `json:"results"`
}

type RepresentResult struct {
	Embedding  []float64  `json:"embedding"`
	FacialArea FacialArea `json:"facial_area"`
}

// FacialArea is the region DeepFace reports, top-left corner plus size.
type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// AnalyzeRequest for POST /analyze
type AnalyzeRequest struct {
	Img      string   `json:"img"`
	Actions  []string `json:"actions"` // empty = detection only
	Detector string   `json:"detector"`
}

// AnalyzeResponse from POST /analyze
type AnalyzeResponse struct {
	Results []AnalyzeResult `json:"results"`
}

type AnalyzeResult struct {
	Region FacialArea `json:"region"`
}
