package api

import (
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/DanilaOak/uploader/internal/service"
)

// multipartSource 把 multipart.Reader 适配为 service.PartSource，逐个流式读取分片。
type multipartSource struct {
	reader *multipart.Reader
}

func newMultipartSource(r *multipart.Reader) *multipartSource {
	return &multipartSource{reader: r}
}

func (s *multipartSource) NextPart() (service.Part, error) {
	p, err := s.reader.NextPart()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return &formPart{Part: p, filename: rawFilename(p)}, nil
}

// formPart 保留客户端提交的原始文件名。multipart.Part.FileName 会做 filepath.Base，
// 而元数据记录的是原始名称；存储路径只取扩展名，不受其影响。
type formPart struct {
	*multipart.Part
	filename string
}

func (p *formPart) FileName() string {
	return p.filename
}

func rawFilename(p *multipart.Part) string {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return p.FileName()
	}
	return params["filename"]
}

// isMultipartForm 判断请求是否声明了 multipart/form-data。
func isMultipartForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}
