package metric

// Matrix is a dense row-major view over N embeddings of dimension Dim.
// Norms, when set, caches the L2 norm of each row and is used by Cosine.
type Matrix struct {
	Dim   int
	Data  []float32
	Norms []float32
}

// Rows returns the number of rows in the matrix.
func (x Matrix) Rows() int {
	if x.Dim <= 0 {
		return 0
	}
	return len(x.Data) / x.Dim
}

// Row returns a view of row i. The slice aliases the matrix buffer.
func (x Matrix) Row(i int) []float32 {
	return x.Data[i*x.Dim : (i+1)*x.Dim : (i+1)*x.Dim]
}

// NewMatrix packs vectors into a Matrix, computing row norms. All vectors
// must have length dim.
func NewMatrix(dim int, vectors [][]float32) Matrix {
	x := Matrix{
		Dim:   dim,
		Data:  make([]float32, 0, dim*len(vectors)),
		Norms: make([]float32, 0, len(vectors)),
	}
	for _, v := range vectors {
		x.Data = append(x.Data, v[:dim]...)
		x.Norms = append(x.Norms, Norm(v[:dim]))
	}
	return x
}
